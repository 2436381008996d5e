package syncstate

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/roach88/hush/internal/blocklist"
)

// RemoteEntry is one number in a snapshot of the remote block list.
type RemoteEntry struct {
	Number      string `yaml:"number" json:"number"`
	DisplayName string `yaml:"display_name" json:"display_name"`
	RemoteID    string `yaml:"remote_id" json:"remote_id"`
}

// Snapshot is the remote block list as fetched by the sync collaborator.
type Snapshot struct {
	Entries []RemoteEntry `yaml:"entries" json:"entries"`
}

// LoadSnapshot decodes a YAML (or JSON) snapshot.
func LoadSnapshot(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&snap); err != nil {
		if err == io.EOF {
			return Snapshot{}, nil
		}
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

// ApplyReport summarizes a snapshot reconciliation.
type ApplyReport struct {
	Added     []string `json:"added"`
	Confirmed []string `json:"confirmed"`
	Removed   []string `json:"removed"`
	Skipped   []string `json:"skipped"`
}

// Apply reconciles the local block list with a remote snapshot.
//
//   - Numbers only in the snapshot are added and marked Synced.
//   - Local Pending entries present in the snapshot are marked Synced.
//   - Local Synced entries missing from the snapshot were removed remotely
//     and are removed here.
//   - Local Pending and Conflict entries missing from the snapshot are kept;
//     the remote service has not accepted them yet.
//
// Snapshot entries with an invalid number are skipped. Apply stops at the
// first storage error and returns the partial report with it.
func (t *Tracker) Apply(ctx context.Context, snap Snapshot) (ApplyReport, error) {
	report := ApplyReport{
		Added:     []string{},
		Confirmed: []string{},
		Removed:   []string{},
		Skipped:   []string{},
	}

	local, err := t.store.List(ctx)
	if err != nil {
		return report, err
	}
	localByNumber := make(map[string]blocklist.Entry, len(local))
	for _, e := range local {
		localByNumber[e.Number] = e
	}

	remote := make(map[string]bool, len(snap.Entries))
	for _, r := range snap.Entries {
		if err := (blocklist.AddRequest{Number: r.Number, DisplayName: r.DisplayName}).Validate(); err != nil {
			t.logger.Warn("skipping invalid snapshot entry", "number", r.Number, "error", err)
			report.Skipped = append(report.Skipped, r.Number)
			continue
		}
		remote[r.Number] = true

		existing, ok := localByNumber[r.Number]
		switch {
		case !ok:
			if _, err := t.store.Upsert(ctx, r.Number, r.DisplayName); err != nil {
				return report, err
			}
			if err := t.confirm(ctx, r); err != nil {
				return report, err
			}
			localByNumber[r.Number] = blocklist.Entry{Number: r.Number, SyncStatus: blocklist.SyncSynced}
			report.Added = append(report.Added, r.Number)

		case existing.SyncStatus == blocklist.SyncPending:
			if err := t.confirm(ctx, r); err != nil {
				return report, err
			}
			report.Confirmed = append(report.Confirmed, r.Number)
		}
	}

	for _, e := range local {
		if remote[e.Number] || e.SyncStatus != blocklist.SyncSynced {
			continue
		}
		removed, err := t.store.Remove(ctx, e.Number)
		if err != nil {
			return report, err
		}
		if removed {
			report.Removed = append(report.Removed, e.Number)
		}
	}

	t.logger.Info("snapshot applied",
		"added", len(report.Added),
		"confirmed", len(report.Confirmed),
		"removed", len(report.Removed),
		"skipped", len(report.Skipped),
	)
	return report, nil
}

// confirm marks r Synced when the snapshot carries a remote ID.
func (t *Tracker) confirm(ctx context.Context, r RemoteEntry) error {
	if r.RemoteID == "" {
		return nil
	}
	_, err := t.MarkSynced(ctx, r.Number, r.RemoteID)
	return err
}
