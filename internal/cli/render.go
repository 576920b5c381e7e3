package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/hitreport/internal/domain"
	"github.com/kailas-cloud/hitreport/internal/domain/hitview"
	domrep "github.com/kailas-cloud/hitreport/internal/domain/report"
	logpkg "github.com/kailas-cloud/hitreport/internal/logger"
	reportrepo "github.com/kailas-cloud/hitreport/internal/repository/report"
	"github.com/kailas-cloud/hitreport/internal/usecase/render"
)

func newRenderCommand() *cobra.Command {
	d := domain.DefaultViewDefaults()
	cmd := &cobra.Command{
		Use:   "render REPORT [HIT_ID...]",
		Short: "Print hit views of a report file as JSON",
		Long: `Reads a report JSON file ("-" for stdin) and prints the view of each
requested hit, or of every hit when no id is given. Hit ids have the form
Query_<n>_hit_<m>.`,
		Example: `  hitreport render report.json Query_1_hit_1
  cat report.json | hitreport render - --collapsed`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRender,
	}
	cmd.Flags().String("locale", d.Locale, "Locale used to format hit lengths")
	cmd.Flags().Int("very-big-hits", d.VeryBigHits, "Hit count above which a report is treated as very big")
	cmd.Flags().Bool("collapsed", false, "Render hits collapsed")
	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	logger, err := cliLogger(cmd)
	if err != nil {
		return err
	}
	ctx := logpkg.ContextWithLogger(cmd.Context(), logger)

	rep, err := readReport(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}

	locale, _ := cmd.Flags().GetString("locale")
	veryBig, _ := cmd.Flags().GetInt("very-big-hits")
	collapsed, _ := cmd.Flags().GetBool("collapsed")

	deriver, err := hitview.NewDeriver(locale)
	if err != nil {
		return err
	}
	renderer, err := render.New(deriver, veryBig, domain.DefaultViewDefaults().RenderCacheSize)
	if err != nil {
		return err
	}

	targets, err := selectHits(rep, args[1:])
	if err != nil {
		return err
	}
	views := make([]render.HitView, 0, len(targets))
	for _, t := range targets {
		views = append(views, renderer.Render(ctx, rep, t.query, t.hit, render.State{Collapsed: collapsed}))
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(views)
}

type hitRef struct {
	query *domrep.Query
	hit   *domrep.Hit
}

// selectHits resolves hit ids in argument order, or returns every hit.
func selectHits(rep *domrep.Report, ids []string) ([]hitRef, error) {
	var out []hitRef
	if len(ids) == 0 {
		for _, q := range rep.Queries() {
			for _, h := range q.Hits() {
				out = append(out, hitRef{query: q, hit: h})
			}
		}
		return out, nil
	}
	for _, id := range ids {
		q, h, err := findHit(rep, id)
		if err != nil {
			return nil, err
		}
		out = append(out, hitRef{query: q, hit: h})
	}
	return out, nil
}

func findHit(rep *domrep.Report, id string) (*domrep.Query, *domrep.Hit, error) {
	qn, hn, err := hitview.ParseIdentifier(id)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrHitNotFound, err)
	}
	return rep.Hit(qn, hn)
}

// readReport decodes a report JSON file; "-" reads stdin.
func readReport(stdin io.Reader, path string) (*domrep.Report, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}
	return reportrepo.Decode(data)
}
