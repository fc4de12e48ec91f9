package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/hoaregistry/internal/model"
	"github.com/nao1215/markdown"
)

// SummaryWriter outputs a Markdown summary of a run: what was searched,
// how many entities were processed, where the table went, and which
// entities were skipped and why.
type SummaryWriter struct {
	baseWriter
}

// NewSummaryWriter creates a SummaryWriter that outputs to the given writer.
func NewSummaryWriter(output io.Writer) *SummaryWriter {
	return &SummaryWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary of run.
func (w *SummaryWriter) Write(run *model.Run) error {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, run)
	w.writeAlert(md, run)
	w.writeSkipped(md, run)
	w.writeColumns(md, run)

	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Generated by hoaregistry*")

	return md.Build()
}

// writeHeader writes the title and the run overview table.
func (w *SummaryWriter) writeHeader(md *markdown.Markdown, run *model.Run) {
	md.H1("Utah HOA Registry Run")
	md.PlainText("")

	output := run.OutputPath
	if output == "" {
		output = "-"
	} else {
		output = "`" + output + "`"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source", run.Source},
			{"Search Term", "`" + run.Term + "`"},
			{"Started", run.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", run.Duration().Round(time.Millisecond).String()},
			{"Entities Found", strconv.Itoa(run.TotalFound)},
			{"Entities Selected", strconv.Itoa(len(run.Entities))},
			{"Records Extracted", strconv.Itoa(run.Processed())},
			{"Entities Skipped", strconv.Itoa(len(run.Skipped))},
			{"Output", output},
			{"Status", statusText(run)},
		},
	})
	md.PlainText("")
}

// statusText returns the status text based on run state.
func statusText(run *model.Run) string {
	switch {
	case run.Error != nil || run.ErrorMessage != "":
		return "Failed"
	case run.Interrupted:
		return "Interrupted (partial results)"
	default:
		return "Complete"
	}
}

// writeAlert writes an alert describing how the run ended.
func (w *SummaryWriter) writeAlert(md *markdown.Markdown, run *model.Run) {
	msg := run.ErrorMessage
	if msg == "" && run.Error != nil {
		msg = run.Error.Error()
	}

	switch {
	case msg != "":
		md.Cautionf("The run stopped with an error: %s", msg)
	case run.Interrupted:
		md.Warningf(
			"The run was interrupted. %d of %d selected entities were processed.",
			run.Processed()+len(run.Skipped), len(run.Entities),
		)
	case len(run.Skipped) > 0:
		md.Note(fmt.Sprintf("%d entities were skipped. See the list below.", len(run.Skipped)))
	default:
		md.Tip("Every selected entity produced a record.")
	}
	md.PlainText("")
}

// writeSkipped lists the skipped entities with their reasons.
func (w *SummaryWriter) writeSkipped(md *markdown.Markdown, run *model.Run) {
	md.H2("Skipped Entities")
	md.PlainText("")

	if len(run.Skipped) == 0 {
		md.PlainText("No entities were skipped.")
		md.PlainText("")
		return
	}

	items := make([]string, 0, len(run.Skipped))
	for _, s := range run.Skipped {
		items = append(items, fmt.Sprintf("`%s` %s: %s", s.ID, s.Name, s.Reason))
	}
	md.BulletList(items...)
	md.PlainText("")
}

// writeColumns lists the exported columns.
func (w *SummaryWriter) writeColumns(md *markdown.Markdown, run *model.Run) {
	if run.Table == nil || len(run.Table.Columns) == 0 {
		return
	}
	md.H2("Columns")
	md.PlainText("")
	md.PlainTextf("%d columns, %d rows.", len(run.Table.Columns), run.Table.Len())
	md.PlainText("")
	md.BulletList(run.Table.Columns...)
	md.PlainText("")
}
