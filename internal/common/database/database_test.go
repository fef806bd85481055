package database

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campus-gig-workers/internal/common/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAll(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectPing().WillReturnError(fmt.Errorf("connection refused"))

	mr := miniredis.RunT(t)
	rc := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer rc.Close()

	es := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusOK)
	}))
	defer es.Close()
	ec, err := NewElasticsearch(config.ElasticsearchConfig{Addresses: []string{es.URL}})
	require.NoError(t, err)

	failures := CheckAll(context.Background(), time.Second, NewPostgresFromDB(db), rc, ec)

	assert.Len(t, failures, 1)
	assert.Contains(t, failures["postgres"], "connection refused")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisClient_PingFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer rc.Close()
	mr.Close()

	err := rc.Ping(context.Background())
	assert.Error(t, err)
}
