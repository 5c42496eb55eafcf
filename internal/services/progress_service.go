package services

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yukikurage/earn-your-wings-api/internal/catalog"
	"github.com/yukikurage/earn-your-wings-api/internal/dto"
	"github.com/yukikurage/earn-your-wings-api/internal/logger"
	"github.com/yukikurage/earn-your-wings-api/internal/models"
	"github.com/yukikurage/earn-your-wings-api/internal/repository"
)

// ProgressService derives per-sub-competency completion from tasks and
// completions. Progress rows are a materialized view: recomputation
// overwrites the computed fields for all catalog leaves and never the
// evidence list, which belongs to the portfolio flow.
type ProgressService struct {
	taskRepo       repository.TaskRepository
	completionRepo repository.CompletionRepository
	progressRepo   repository.ProgressRepository
	log            *logger.Logger
}

// NewProgressService creates a new ProgressService
func NewProgressService(
	taskRepo repository.TaskRepository,
	completionRepo repository.CompletionRepository,
	progressRepo repository.ProgressRepository,
	log *logger.Logger,
) *ProgressService {
	return &ProgressService{
		taskRepo:       taskRepo,
		completionRepo: completionRepo,
		progressRepo:   progressRepo,
		log:            log.With("service", "progress"),
	}
}

// Compute returns (percentage, completed, total) for one sub-competency.
// Totals count only active tasks; completions are counted against every
// task of the leaf, active or not, so deactivating a completed task lowers
// the total without erasing the completion. completed > total is accepted.
// An empty leaf computes to 0% rather than dividing by zero.
func (s *ProgressService) Compute(userID, area, sub string) (float64, int, int, error) {
	tasks, err := s.taskRepo.List(repository.TaskFilter{
		CompetencyArea: &area,
		SubCompetency:  &sub,
	})
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	completions, err := s.completionRepo.ListByUser(userID)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to list completions: %w", err)
	}

	completedIDs := make(map[string]bool, len(completions))
	for _, c := range completions {
		completedIDs[c.TaskID] = true
	}

	total := 0
	completed := 0
	for _, t := range tasks {
		if t.Active {
			total++
		}
		if completedIDs[t.ID] {
			completed++
		}
	}

	percentage := 0.0
	if total > 0 {
		percentage = math.Min(float64(completed)/float64(total)*100, 100)
	}
	return percentage, completed, total, nil
}

// RecomputeAll recomputes and upserts progress for every catalog leaf of a
// user. Completions and tasks are fetched once; the per-leaf work is
// in-memory counting.
func (s *ProgressService) RecomputeAll(userID string) error {
	completions, err := s.completionRepo.ListByUser(userID)
	if err != nil {
		return fmt.Errorf("failed to list completions: %w", err)
	}
	completedIDs := make(map[string]bool, len(completions))
	for _, c := range completions {
		completedIDs[c.TaskID] = true
	}

	tasks, err := s.taskRepo.List(repository.TaskFilter{})
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	type leaf struct{ area, sub string }
	totals := make(map[leaf]int)
	completed := make(map[leaf]int)
	for _, t := range tasks {
		key := leaf{t.CompetencyArea, t.SubCompetency}
		if t.Active {
			totals[key]++
		}
		if completedIDs[t.ID] {
			completed[key]++
		}
	}

	now := time.Now().UTC()
	for _, area := range catalog.Areas() {
		for sub := range area.SubCompetencies {
			key := leaf{area.Key, sub}
			total := totals[key]
			done := completed[key]
			percentage := 0.0
			if total > 0 {
				percentage = math.Min(float64(done)/float64(total)*100, 100)
			}

			record := &models.CompetencyProgress{
				ID:                   uuid.NewString(),
				UserID:               userID,
				CompetencyArea:       area.Key,
				SubCompetency:        sub,
				CompletionPercentage: percentage,
				CompletedTasks:       done,
				TotalTasks:           total,
				EvidenceItems:        datatypes.JSON([]byte(`[]`)),
				LastUpdated:          now,
			}
			if err := s.progressRepo.Upsert(record); err != nil {
				return fmt.Errorf("failed to upsert progress for %s/%s: %w", area.Key, sub, err)
			}
		}
	}

	return nil
}

// OrganizedProgress recomputes a user's progress and returns it grouped by
// competency area in catalog order. The recompute-then-read is deliberate: a
// read of "my competencies" always reflects the latest completions, even if
// a write-side trigger was missed. Stored rows referencing areas or
// sub-competencies outside the current catalog are logged and dropped from
// the view.
func (s *ProgressService) OrganizedProgress(userID string) ([]dto.CompetencyAreaProgress, error) {
	if err := s.RecomputeAll(userID); err != nil {
		return nil, err
	}

	records, err := s.progressRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}

	byLeaf := make(map[string]map[string]models.CompetencyProgress)
	for _, rec := range records {
		if !catalog.HasLeaf(rec.CompetencyArea, rec.SubCompetency) {
			s.log.Warn("skipping orphaned progress record",
				"user_id", userID,
				"competency_area", rec.CompetencyArea,
				"sub_competency", rec.SubCompetency,
			)
			continue
		}
		if byLeaf[rec.CompetencyArea] == nil {
			byLeaf[rec.CompetencyArea] = make(map[string]models.CompetencyProgress)
		}
		byLeaf[rec.CompetencyArea][rec.SubCompetency] = rec
	}

	organized := make([]dto.CompetencyAreaProgress, 0, catalog.AreaCount())
	for _, area := range catalog.Areas() {
		areaProgress := dto.CompetencyAreaProgress{
			Key:             area.Key,
			Name:            area.Name,
			Description:     area.Description,
			SubCompetencies: make([]dto.SubCompetencyProgress, 0, len(area.SubCompetencies)),
		}

		sum := 0.0
		count := 0
		for sub, name := range area.SubCompetencies {
			rec, ok := byLeaf[area.Key][sub]
			if !ok {
				continue
			}
			areaProgress.SubCompetencies = append(areaProgress.SubCompetencies, dto.SubCompetencyProgress{
				Key:                  sub,
				Name:                 name,
				CompletionPercentage: rec.CompletionPercentage,
				CompletedTasks:       rec.CompletedTasks,
				TotalTasks:           rec.TotalTasks,
				EvidenceItems:        decodeEvidence(rec.EvidenceItems),
				LastUpdated:          rec.LastUpdated,
			})
			sum += rec.CompletionPercentage
			count++
		}

		sort.Slice(areaProgress.SubCompetencies, func(i, j int) bool {
			return areaProgress.SubCompetencies[i].Key < areaProgress.SubCompetencies[j].Key
		})

		// Area progress is the plain mean of its sub-competencies, not
		// weighted by task count.
		if count > 0 {
			areaProgress.OverallProgress = sum / float64(count)
		}
		organized = append(organized, areaProgress)
	}

	return organized, nil
}

// AttachEvidence links a portfolio item into the evidence list of every
// progress row in the tagged competency areas. Unknown areas have no
// progress rows and are skipped silently.
func (s *ProgressService) AttachEvidence(userID string, areas []string, itemID string) error {
	return s.mutateEvidence(userID, areas, func(items []string) []string {
		for _, existing := range items {
			if existing == itemID {
				return items
			}
		}
		return append(items, itemID)
	})
}

// DetachEvidence removes a portfolio item from the evidence lists of the
// tagged competency areas.
func (s *ProgressService) DetachEvidence(userID string, areas []string, itemID string) error {
	return s.mutateEvidence(userID, areas, func(items []string) []string {
		kept := items[:0]
		for _, existing := range items {
			if existing != itemID {
				kept = append(kept, existing)
			}
		}
		return kept
	})
}

func (s *ProgressService) mutateEvidence(userID string, areas []string, mutate func([]string) []string) error {
	if len(areas) == 0 {
		return nil
	}
	tagged := make(map[string]bool, len(areas))
	for _, a := range areas {
		tagged[a] = true
	}

	records, err := s.progressRepo.ListByUser(userID)
	if err != nil {
		return fmt.Errorf("failed to list progress: %w", err)
	}

	for i := range records {
		rec := &records[i]
		if !tagged[rec.CompetencyArea] {
			continue
		}
		items := decodeEvidence(rec.EvidenceItems)
		updated := mutate(items)
		encoded, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("failed to encode evidence list: %w", err)
		}
		rec.EvidenceItems = datatypes.JSON(encoded)
		if err := s.progressRepo.Save(rec); err != nil {
			return fmt.Errorf("failed to save evidence list: %w", err)
		}
	}
	return nil
}

func decodeEvidence(raw datatypes.JSON) []string {
	items := []string{}
	if len(raw) == 0 {
		return items
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return []string{}
	}
	return items
}
