package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"fieldtrax/internal/core"
)

func renderJSON(w io.Writer, r core.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func renderText(w io.Writer, source string, r core.Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Tally:  %s\n", source)
	fmt.Fprintf(&b, "Report: %s (%s units)\n\n", r.ID, r.Region)

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tKIND\tTOP\tBOTTOM\tLENGTH\tOD\tID\tCAPACITY\t")
	for _, row := range r.Components {
		kind := string(row.Kind)
		if row.Name != "" {
			kind += " (" + row.Name + ")"
		}
		if row.Installed {
			kind += " *"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			row.Index+1, row.ID, kind, row.StartDepth, row.EndDepth, row.Length, row.OuterDiameter, row.InnerDiameter, row.Capacity)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.Overlaps) > 0 {
		b.WriteString("\nLiner overlaps:\n")
		for _, o := range r.Overlaps {
			note := ""
			if o.Gap {
				note = " (gap)"
			}
			fmt.Fprintf(&b, "  %s over %s: %s%s\n", o.LinerID, o.PreviousID, o.Overlap, note)
		}
	}

	fmt.Fprintf(&b, "\nTotals: %d components, bottom %s, length %s, internal volume %s\n",
		r.Totals.Components, r.Totals.EndDepth, r.Totals.TotalLength, r.Totals.InternalVolume)

	if len(r.Violations) > 0 {
		b.WriteString("\nViolations:\n")
		for _, v := range r.Violations {
			target := ""
			if v.ComponentID != "" {
				target = " [" + v.ComponentID + "]"
			}
			fmt.Fprintf(&b, "  %-5s %s%s: %s\n", v.Severity, v.Rule, target, v.Message)
		}
	}
	if r.Blocked {
		b.WriteString("\nResult: BLOCKED\n")
	} else {
		b.WriteString("\nResult: OK\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeExpvar(w io.Writer, rec *core.ExpvarMetricsRecorder) error {
	enc := json.NewEncoder(w)
	return enc.Encode(map[string]any{rec.Name(): rec.Snapshot()})
}

// writePrometheus encodes the gathered families in the text exposition format.
func writePrometheus(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
