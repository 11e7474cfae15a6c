package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/doccheck/internal/client/api"
	"github.com/dmitrijs2005/doccheck/internal/client/models"
	"github.com/dmitrijs2005/doccheck/internal/client/router"
	"github.com/dmitrijs2005/doccheck/internal/filex"
)

const dateLayout = "2006-01-02 15:04"

// Upload sends a local file for checking from the home page.
func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: upload <path>")
		return nil
	}
	if _, ok, err := a.enter(router.PathHome, "home"); err != nil || !ok {
		return err
	}

	res, err := a.api.UploadFile(ctx, args[0])
	if err != nil {
		return a.apiFailed(ctx, err)
	}
	fmt.Fprintf(a.out, "Uploaded %s: id %s, status %s\n", res.Filename, res.Document(), res.Status)
	return nil
}

// History prints past checks as a table.
func (a *App) History(ctx context.Context) error {
	if _, ok, err := a.enter("/history", "history"); err != nil || !ok {
		return err
	}

	items, err := a.api.History(ctx)
	if err != nil {
		return a.apiFailed(ctx, err)
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No documents yet")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFILE\tUPLOADED\tSTATUS\tVIOLATIONS")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", it.ID, it.Filename, formatDate(it.UploadDate.Time), it.Status, violations(it.TotalViolations, it.ErrorCounts))
	}
	return tw.Flush()
}

// Result prints the detailed report of one document.
func (a *App) Result(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: result <id>")
		return nil
	}
	nav, ok, err := a.enter(resultPath(args[0]), "result")
	if err != nil || !ok {
		return err
	}

	res, err := a.api.Result(ctx, models.DocID(nav.Params["id"]))
	if err != nil {
		return a.apiFailed(ctx, err)
	}

	fmt.Fprintf(a.out, "Document:   %s (id %s)\n", res.Filename, res.ID)
	fmt.Fprintf(a.out, "Uploaded:   %s\n", formatDate(res.UploadDate.Time))
	fmt.Fprintf(a.out, "Status:     %s\n", res.Status)
	fmt.Fprintf(a.out, "Violations: %d\n", violations(res.TotalViolations, res.ErrorCounts))

	if rules := ruleNames(res.ErrorCounts); len(rules) > 0 {
		fmt.Fprintln(a.out)
		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RULE\tCOUNT")
		for _, r := range rules {
			fmt.Fprintf(tw, "%s\t%d\n", r, res.ErrorCounts[r])
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	for _, p := range res.ErrorPoints {
		fmt.Fprintf(a.out, "  - %s\n", p)
	}
	if res.FullReport != "" {
		fmt.Fprintf(a.out, "\n%s\n", strings.TrimSpace(res.FullReport))
	}
	return nil
}

// Download saves the original document.
func (a *App) Download(ctx context.Context, args []string) error {
	return a.save(ctx, args, "download", "document_", a.api.Download)
}

// Annotated saves the document with violations marked up.
func (a *App) Annotated(ctx context.Context, args []string) error {
	return a.save(ctx, args, "annotated", "annotated_", a.api.DownloadAnnotated)
}

type fetchFn func(ctx context.Context, id models.DocID) (*api.Blob, error)

func (a *App) save(ctx context.Context, args []string, cmd, prefix string, fetch fetchFn) error {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintf(a.out, "Usage: %s <id> [dir]\n", cmd)
		return nil
	}
	dir := a.config.DownloadDir
	if len(args) == 2 {
		dir = args[1]
	}

	nav, ok, err := a.enter(resultPath(args[0]), "result")
	if err != nil || !ok {
		return err
	}
	id := nav.Params["id"]

	blob, err := fetch(ctx, models.DocID(id))
	if err != nil {
		return a.apiFailed(ctx, err)
	}

	path, err := filex.WriteFile(dir, blob.Filename, prefix+id, blob.Data)
	if err != nil {
		return err
	}
	a.log.Debug(ctx, "document saved", "id", id, "path", path, "bytes", len(blob.Data))
	fmt.Fprintf(a.out, "Saved %d bytes to %s\n", len(blob.Data), path)
	return nil
}

func resultPath(id string) string {
	return "/result/" + id
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout)
}

// violations prefers the server total and falls back to the per-rule counts.
func violations(total int, counts models.ErrorCounts) int {
	if total > 0 || counts == nil {
		return total
	}
	return counts.Total()
}

func ruleNames(counts models.ErrorCounts) []string {
	names := make([]string, 0, len(counts))
	for k := range counts {
		if k == "total" {
			continue
		}
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
