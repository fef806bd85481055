package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"campus-gig-workers/internal/common/auth"
	"campus-gig-workers/internal/common/errors"
	"campus-gig-workers/internal/common/logger"
	"campus-gig-workers/internal/geo"
	"campus-gig-workers/internal/models"
	"campus-gig-workers/internal/ranking"

	"github.com/gocraft/dbr/v2"
)

type userRow struct {
	ID            string   `db:"id"`
	Role          string   `db:"role"`
	Skills        string   `db:"skills"`
	Latitude      *float64 `db:"latitude"`
	Longitude     *float64 `db:"longitude"`
	Rating        *float64 `db:"rating"`
	CompletedJobs int      `db:"completed_jobs"`
}

func (u userRow) profile() *ranking.Profile {
	return &ranking.Profile{
		ID:            u.ID,
		Skills:        u.Skills,
		Location:      geo.Coordinate{Latitude: u.Latitude, Longitude: u.Longitude},
		Rating:        u.Rating,
		CompletedJobs: u.CompletedJobs,
	}
}

// Directory is the user table seen as an identity resolver and a profile source.
type Directory struct {
	sess   *dbr.Session
	logger logger.Logger
}

var (
	_ auth.Resolver         = (*Directory)(nil)
	_ ranking.ProfileSource = (*Directory)(nil)
)

func NewDirectory(db *sql.DB, log logger.Logger) *Directory {
	return &Directory{sess: newSession(db), logger: log}
}

func (d *Directory) load(ctx context.Context, userID string) (*userRow, error) {
	var u userRow
	err := d.sess.
		Select("id", "role", "skills", "latitude", "longitude", "rating", "completed_jobs").
		From("users").
		Where("id = ?", userID).
		LoadOneContext(ctx, &u)

	if err == dbr.ErrNotFound {
		return nil, errors.NewResourceNotFoundError("directory", fmt.Sprintf("userId: %s", userID))
	}
	if err != nil {
		d.logger.Error("failed to load user", map[string]interface{}{"userId": userID, "error": err})
		return nil, errors.NewQueryExecutionFailedError("get_user", err)
	}
	return &u, nil
}

// Resolve trusts the asserted caller id and reads the role from the directory.
// Unknown users are unauthorized rather than not found.
func (d *Directory) Resolve(ctx context.Context, creds auth.Credentials) (models.Caller, error) {
	id := strings.TrimSpace(creds.CallerID)
	if id == "" {
		return models.Caller{}, errors.NewValidationError("callerId is required")
	}

	u, err := d.load(ctx, id)
	if errors.HasCode(err, errors.ErrCodeResourceNotFound) {
		return models.Caller{}, errors.NewUnauthorizedError(fmt.Sprintf("unknown caller %s", id))
	}
	if err != nil {
		return models.Caller{}, err
	}
	return models.Caller{ID: u.ID, Role: models.ParseRole(u.Role)}, nil
}

func (d *Directory) Profile(ctx context.Context, userID string) (*ranking.Profile, error) {
	u, err := d.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.profile(), nil
}
