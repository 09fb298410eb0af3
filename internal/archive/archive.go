package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fieldtrax/internal/core"
)

const (
	// ReportPrefix is the key prefix of archived reports.
	ReportPrefix    = "reports/"
	reportStampTime = "20060102T150405.000000000Z"
	jsonContentType = "application/json"
)

// ReportKey returns reports/<timestamp>-<id>.json for r. The timestamp is UTC
// with fixed-width nanoseconds, so keys sort by generation time.
func ReportKey(r core.Report) string {
	return ReportPrefix + r.GeneratedAt.UTC().Format(reportStampTime) + "-" + r.ID + ".json"
}

// Archive writes r to store under ReportKey. Reports are never overwritten.
func Archive(ctx context.Context, store Store, r core.Report) (Info, error) {
	if store == nil {
		return Info{}, errors.New("archive: nil store")
	}
	if strings.TrimSpace(r.ID) == "" {
		return Info{}, errors.New("archive: report has no id")
	}
	payload, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return Info{}, fmt.Errorf("encode report %s: %w", r.ID, err)
	}
	return store.Put(ctx, ReportKey(r), bytes.NewReader(payload), PutOptions{
		ContentType: jsonContentType,
		Metadata: map[string]string{
			"report-id":  r.ID,
			"region":     string(r.Region),
			"components": strconv.Itoa(r.Totals.Components),
			"blocked":    strconv.FormatBool(r.Blocked),
		},
	})
}

// Load reads an archived report.
func Load(ctx context.Context, store Store, key string) (core.Report, error) {
	_, rc, err := store.Get(ctx, key)
	if err != nil {
		return core.Report{}, err
	}
	defer func() { _ = rc.Close() }()
	var r core.Report
	if err := json.NewDecoder(rc).Decode(&r); err != nil {
		return core.Report{}, fmt.Errorf("decode report %s: %w", key, err)
	}
	return r, nil
}

// Reports lists archived reports, oldest first.
func Reports(ctx context.Context, store Store) ([]Info, error) {
	all, err := store.List(ctx, ReportPrefix)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, info := range all {
		if strings.HasSuffix(info.Key, ".json") {
			out = append(out, info)
		}
	}
	return out, nil
}

// Prune deletes all but the newest keep reports and returns how many were
// removed. A negative keep is rejected.
func Prune(ctx context.Context, store Store, keep int) (int, error) {
	if keep < 0 {
		return 0, fmt.Errorf("archive: keep must not be negative, got %d", keep)
	}
	infos, err := Reports(ctx, store)
	if err != nil {
		return 0, err
	}
	removed := 0
	for i := 0; i < len(infos)-keep; i++ {
		ok, err := store.Delete(ctx, infos[i].Key)
		if err != nil {
			return removed, err
		}
		if ok {
			removed++
		}
	}
	return removed, nil
}
