package service

import (
	"errors"
	"sjdportal/models"
	"testing"
	"time"
)

func newTestVisitService() (*VisitService, *fakeVisitStore, *fakeComplaintStore) {
	visits := newFakeVisitStore()
	complaints := newFakeComplaintStore()
	accounts := newFakeAccountStore(
		models.Account{AccountID: 2, Role: models.RoleOfficer, Name: "Officer Singh"},
		models.Account{AccountID: 4, Role: models.RoleDM, Name: "DM Office"},
		models.Account{AccountID: 5, Role: models.RoleOfficer, Name: "Officer Verma"},
	)
	return NewVisitService(visits, complaints, accounts), visits, complaints
}

func TestCreateAssignmentDMOnly(t *testing.T) {
	svc, _, _ := newTestVisitService()

	req := &models.CreateVisitRequest{
		OfficerID: 2,
		Location:  models.VisitLocation{District: "Saharsa", GramPanchayat: "Rampur", Village: "Basantpur"},
		Priority:  "High",
		VisitDate: "2025-03-10",
		Notes:     "Verify hand pump complaints",
	}

	if _, err := svc.CreateAssignment(req, models.Actor{Role: models.RoleOfficer, ID: 2}); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("Expected Forbidden for officer creating assignment, got %v", err)
	}

	assignment, err := svc.CreateAssignment(req, models.Actor{Role: models.RoleDM, ID: 4})
	if err != nil {
		t.Fatalf("CreateAssignment failed: %v", err)
	}
	if assignment.DMID != 4 || assignment.OfficerID != 2 {
		t.Errorf("Assignment actors wrong: dm=%d officer=%d", assignment.DMID, assignment.OfficerID)
	}
	if assignment.Priority != models.PriorityHigh {
		t.Errorf("Expected High priority, got %s", assignment.Priority)
	}
}

func TestCreateAssignmentInvalidOfficer(t *testing.T) {
	svc, _, _ := newTestVisitService()

	_, err := svc.CreateAssignment(&models.CreateVisitRequest{
		OfficerID: 99,
		Location:  models.VisitLocation{District: "Saharsa", GramPanchayat: "Rampur", Village: "Basantpur"},
		Priority:  "Low",
		VisitDate: "2025-03-10",
	}, models.Actor{Role: models.RoleDM, ID: 4})
	if !errors.Is(err, models.ErrInvalidTarget) {
		t.Fatalf("Expected InvalidTarget for unknown officer, got %v", err)
	}
}

func TestSubmitReportAssigneeOnly(t *testing.T) {
	svc, _, _ := newTestVisitService()

	assignment, err := svc.CreateAssignment(&models.CreateVisitRequest{
		OfficerID: 2,
		Location:  models.VisitLocation{District: "Saharsa", GramPanchayat: "Rampur", Village: "Basantpur"},
		Priority:  "Medium",
		VisitDate: "2025-03-10",
	}, models.Actor{Role: models.RoleDM, ID: 4})
	if err != nil {
		t.Fatalf("CreateAssignment failed: %v", err)
	}

	req := &models.SubmitVisitReportRequest{
		ActualVisitDate: "2025-03-12",
		Remarks:         "Visited, two pumps repaired on the spot",
	}

	// The DM may read but never write the report.
	if _, err := svc.SubmitReport(assignment.AssignmentID, models.Actor{Role: models.RoleDM, ID: 4}, req); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("Expected Forbidden for DM submitting report, got %v", err)
	}
	// Nor may a different officer.
	if _, err := svc.SubmitReport(assignment.AssignmentID, models.Actor{Role: models.RoleOfficer, ID: 5}, req); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("Expected Forbidden for non-assigned officer, got %v", err)
	}

	if _, err := svc.SubmitReport(assignment.AssignmentID, models.Actor{Role: models.RoleOfficer, ID: 2}, req); err != nil {
		t.Fatalf("SubmitReport by assignee failed: %v", err)
	}
}

// Mirrors the resubmission scenario: the second report overwrites the first,
// and the actual visit date may differ from the planned one.
func TestSubmitReportOverwrites(t *testing.T) {
	svc, _, _ := newTestVisitService()
	dm := models.Actor{Role: models.RoleDM, ID: 4}
	officer := models.Actor{Role: models.RoleOfficer, ID: 2}

	assignment, _ := svc.CreateAssignment(&models.CreateVisitRequest{
		OfficerID: 2,
		Location:  models.VisitLocation{District: "Saharsa", GramPanchayat: "Rampur", Village: "Basantpur"},
		Priority:  "High",
		VisitDate: "2025-03-10",
	}, dm)

	first := &models.SubmitVisitReportRequest{
		ActualVisitDate: "2025-03-12",
		Remarks:         "Initial tally",
		Stats:           models.VisitStats{Total: 5, Solved: 2, Pending: 1, Forwarded: 1, Rejected: 0, InProgress: 1},
	}
	if _, err := svc.SubmitReport(assignment.AssignmentID, officer, first); err != nil {
		t.Fatalf("First SubmitReport failed: %v", err)
	}

	second := &models.SubmitVisitReportRequest{
		ActualVisitDate: "2025-03-12",
		Remarks:         "Corrected tally",
		Stats:           models.VisitStats{Total: 6, Solved: 3, Pending: 1, Forwarded: 1, Rejected: 0, InProgress: 1},
	}
	if _, err := svc.SubmitReport(assignment.AssignmentID, officer, second); err != nil {
		t.Fatalf("Second SubmitReport failed: %v", err)
	}

	got, err := svc.GetAssignment(assignment.AssignmentID, dm)
	if err != nil {
		t.Fatalf("GetAssignment failed: %v", err)
	}
	if got.Report == nil {
		t.Fatal("Expected exactly one report on the assignment")
	}
	if got.Report.Stats.Total != 6 || got.Report.Stats.Solved != 3 {
		t.Errorf("Report must reflect the latest submission, got %+v", got.Report.Stats)
	}
	if got.Report.Remarks != "Corrected tally" {
		t.Errorf("Expected overwritten remarks, got %q", got.Report.Remarks)
	}
	if got.Report.ActualVisitDate.Format("2006-01-02") != "2025-03-12" {
		t.Errorf("Actual visit date wrong: %v", got.Report.ActualVisitDate)
	}
}

func TestSubmitReportNotFound(t *testing.T) {
	svc, _, _ := newTestVisitService()

	_, err := svc.SubmitReport(777, models.Actor{Role: models.RoleOfficer, ID: 2}, &models.SubmitVisitReportRequest{
		ActualVisitDate: "2025-03-12",
	})
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("Expected NotFound for missing assignment, got %v", err)
	}
}

func TestGetAssignmentVisibility(t *testing.T) {
	svc, _, _ := newTestVisitService()
	dm := models.Actor{Role: models.RoleDM, ID: 4}

	assignment, _ := svc.CreateAssignment(&models.CreateVisitRequest{
		OfficerID: 2,
		Location:  models.VisitLocation{District: "Saharsa", GramPanchayat: "Rampur", Village: "Basantpur"},
		Priority:  "Low",
		VisitDate: "2025-03-10",
	}, dm)

	if _, err := svc.GetAssignment(assignment.AssignmentID, dm); err != nil {
		t.Errorf("Creating DM should read the assignment: %v", err)
	}
	if _, err := svc.GetAssignment(assignment.AssignmentID, models.Actor{Role: models.RoleOfficer, ID: 2}); err != nil {
		t.Errorf("Assigned officer should read the assignment: %v", err)
	}
	if _, err := svc.GetAssignment(assignment.AssignmentID, models.Actor{Role: models.RoleOfficer, ID: 5}); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("Expected Forbidden for unrelated officer, got %v", err)
	}
}

func TestStatsForOfficerDate(t *testing.T) {
	svc, _, complaints := newTestVisitService()
	officerID := int64(2)

	// Three complaints filed by officer 2 on the same day with different
	// statuses, plus one by another officer.
	seed := []struct {
		officer int64
		status  models.ComplaintStatus
	}{
		{2, models.StatusPending},
		{2, models.StatusResolved},
		{2, models.StatusInProgress},
		{5, models.StatusPending},
	}
	for i, s := range seed {
		c := &models.Complaint{
			TrackingID:  "SJD/2025/CMP0000" + string(rune('1'+i)),
			Title:       "seed",
			Description: "seed",
			SourceType:  models.SourceOfficer,
			Status:      s.status,
		}
		c.FiledByOfficerID.Int64 = s.officer
		c.FiledByOfficerID.Valid = true
		if err := complaints.CreateComplaint(c); err != nil {
			t.Fatalf("seed complaint failed: %v", err)
		}
	}

	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	stats, err := svc.StatsForOfficerDate(&officerID, date)
	if err != nil {
		t.Fatalf("StatsForOfficerDate failed: %v", err)
	}

	if stats.Total != 3 {
		t.Errorf("Expected total 3 for officer 2, got %d", stats.Total)
	}
	if stats.Pending != 1 || stats.Solved != 1 || stats.InProgress != 1 {
		t.Errorf("Unexpected breakdown: %+v", stats)
	}

	// Idempotent: same arguments, no intervening writes, same result.
	again, err := svc.StatsForOfficerDate(&officerID, date)
	if err != nil {
		t.Fatalf("Second StatsForOfficerDate failed: %v", err)
	}
	if again != stats {
		t.Errorf("Stats not idempotent: %+v vs %+v", stats, again)
	}

	// District-wide view (nil officer) counts everything on the date.
	all, err := svc.StatsForOfficerDate(nil, date)
	if err != nil {
		t.Fatalf("District-wide stats failed: %v", err)
	}
	if all.Total != 4 {
		t.Errorf("Expected district-wide total 4, got %d", all.Total)
	}

	// A different calendar date matches nothing.
	other, _ := svc.StatsForOfficerDate(&officerID, date.AddDate(0, 0, 1))
	if other.Total != 0 {
		t.Errorf("Expected 0 for other date, got %d", other.Total)
	}
}
