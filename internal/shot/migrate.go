package shot

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"
)

// placeholderProject is the repair target name used when the operator asks
// for a fresh bucket instead of an existing project.
const placeholderProjectName = "Unassigned (recovered shots)"

// MigrationReport summarizes one best-effort reassignment batch. A partial
// failure leaves the successful writes in place; the batch is not a
// transaction.
type MigrationReport struct {
	Attempted int      `json:"attempted"`
	Succeeded int      `json:"succeeded"`
	Failed    []string `json:"failed,omitempty"` // shot ids whose write was rejected
	ProjectID string   `json:"projectId"`
}

// projectCreator is the minimal slice of the project domain the migration
// needs. Wired to project.Service at startup; an interface keeps the two
// domains from importing each other.
type projectCreator interface {
	CreateProject(ctx context.Context, clientID, name string) (string, error)
}

// Migrator repairs orphaned shots by bulk-reassigning them to a project.
type Migrator struct {
	repo     Repository
	projects projectCreator
}

func NewMigrator(repo Repository, projects projectCreator) *Migrator {
	return &Migrator{repo: repo, projects: projects}
}

// FindOrphans lists the tenant's shots with a null or empty project reference.
func (m *Migrator) FindOrphans(ctx context.Context, clientID string) ([]*Shot, error) {
	return m.repo.ListOrphans(ctx, clientID)
}

// Reassign moves every listed shot to targetProjectID. All writes are issued
// concurrently and awaited as a group; one rejected write is reported but
// does not roll back the writes that already committed.
func (m *Migrator) Reassign(ctx context.Context, clientID, targetProjectID string, shotIDs []string) (*MigrationReport, error) {
	if targetProjectID == "" {
		return nil, fmt.Errorf("target project id required")
	}
	report := &MigrationReport{Attempted: len(shotIDs), ProjectID: targetProjectID}
	results := make([]error, len(shotIDs))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range shotIDs {
		g.Go(func() error {
			results[i] = m.repo.Update(gctx, clientID, id, bson.M{"projectId": targetProjectID})
			// per-item outcome only; never fail the group
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range results {
		if err != nil {
			report.Failed = append(report.Failed, shotIDs[i])
		} else {
			report.Succeeded++
		}
	}
	return report, nil
}

// ReassignToPlaceholder creates the placeholder project first, then runs the
// same batch against it.
func (m *Migrator) ReassignToPlaceholder(ctx context.Context, clientID string, shotIDs []string) (*MigrationReport, error) {
	pid, err := m.projects.CreateProject(ctx, clientID, placeholderProjectName)
	if err != nil {
		return nil, fmt.Errorf("creating placeholder project: %w", err)
	}
	return m.Reassign(ctx, clientID, pid, shotIDs)
}

// DescribeOutcome renders the report the way the repair screen presents it.
func (r *MigrationReport) DescribeOutcome() string {
	if r.Succeeded == r.Attempted {
		return fmt.Sprintf("Reassigned %d of %d shots.", r.Succeeded, r.Attempted)
	}
	return fmt.Sprintf("Reassigned %d of %d shots; %d failed and can be retried.", r.Succeeded, r.Attempted, len(r.Failed))
}
