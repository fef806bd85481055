package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"campus-gig-workers/internal/ranking"

	"github.com/spf13/cobra"
)

// rankRequest is the file format read by `gigctl rank`.
type rankRequest struct {
	Profile    ranking.Profile     `json:"profile"`
	Candidates []ranking.Candidate `json:"candidates"`
}

type rankOptions struct {
	file     string
	policy   string
	limit    int
	radiusKm float64
	asJSON   bool
}

func newRankCmd() *cobra.Command {
	opts := &rankOptions{}

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank candidates for a profile with one of the ranking policies",
		Long: `Reads {"profile": {...}, "candidates": [...]} from --file (or stdin when
--file is "-") and prints the ranked result.

Policies:
  hybrid     skill match and proximity (gig search)
  composite  skill, proximity, rating, experience and urgency within the radius
  talent     nearest workers within the radius`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRank(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "-", "request file, - for stdin")
	cmd.Flags().StringVarP(&opts.policy, "policy", "p", "hybrid", "hybrid, composite or talent")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "maximum results (0 uses the engine default)")
	cmd.Flags().Float64Var(&opts.radiusKm, "radius", 0, "radius in km for composite and talent (0 uses the default)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func runRank(cmd *cobra.Command, opts *rankOptions) error {
	req, err := readRankRequest(cmd.InOrStdin(), opts.file)
	if err != nil {
		return err
	}

	var engineOpts []ranking.Option
	if opts.radiusKm > 0 {
		engineOpts = append(engineOpts, ranking.WithRadiusKm(opts.radiusKm))
	}
	engine := ranking.NewEngine(engineOpts...)

	var results []ranking.Result
	switch strings.ToLower(opts.policy) {
	case "hybrid":
		results = engine.Hybrid(req.Profile, req.Candidates, opts.limit)
	case "composite":
		results = engine.Composite(req.Profile, req.Candidates, opts.limit)
	case "talent":
		results = engine.Talent(req.Profile, req.Candidates, opts.limit)
	default:
		return fmt.Errorf("unknown policy %q", opts.policy)
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Ranking (%s) for %s", opts.policy, displayID(req.Profile.ID))))
	if len(results) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("no candidates ranked"))
		return nil
	}
	for i, r := range results {
		distance := "unknown"
		if r.DistanceKm != nil {
			distance = fmt.Sprintf("%.2f km", *r.DistanceKm)
		}
		fmt.Fprintf(out, "%2d. %s  %s  %s  %s\n",
			i+1,
			labelStyle.Render(r.ID),
			field("score", r.Score),
			field("skill", r.SkillScore),
			field("distance", distance),
		)
	}
	return nil
}

func readRankRequest(stdin io.Reader, file string) (*rankRequest, error) {
	var r io.Reader = stdin
	if file != "" && file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("open request: %w", err)
		}
		defer f.Close()
		r = f
	}

	var req rankRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	return &req, nil
}

func displayID(id string) string {
	if id == "" {
		return "anonymous profile"
	}
	return id
}
