package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/ayos-surigao/ayos-api/api"
	"github.com/ayos-surigao/ayos-api/config"
	"github.com/ayos-surigao/ayos-api/databases"
	"github.com/ayos-surigao/ayos-api/models"
	"github.com/ayos-surigao/ayos-api/workflow"
)

// Report exported for testing purposes
type Report struct {
	RDB      databases.ReportDatabase
	SDB      databases.StaffDatabase
	HDB      databases.StatusHistoryDatabase
	CDB      databases.CommentDatabase
	CTR      databases.CounterDatabase
	Feed     *FeedHub
	Rotation *workflow.Rotation
}

type createReportRequest struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Category         string   `json:"category"`
	Urgency          string   `json:"urgency"`
	SpecificLocation string   `json:"specificLocation"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	BarangayCode     string   `json:"barangayCode"`
	ReporterID       string   `json:"reporterId"`
	IsAnonymous      bool     `json:"isAnonymous"`
	ContactInfo      string   `json:"contactInfo"`
	PushToken        string   `json:"pushToken"`
	PhotoURLs        []string `json:"photoUrls"`
}

type transitionRequest struct {
	Status  string `json:"status"`
	ActorID string `json:"actorId"`
	Note    string `json:"note"`
}

type assignRequest struct {
	StaffID string `json:"staffId"`
	ActorID string `json:"actorId"`
}

// CreateReportHandler accepts a new report from a resident or guest. This
// route is intentionally unauthenticated: guests may report issues.
func (re Report) CreateReportHandler(w http.ResponseWriter, r *http.Request) {
	var req createReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	now := time.Now().UTC()
	report := models.Report{
		Title:            strings.TrimSpace(req.Title),
		Description:      strings.TrimSpace(req.Description),
		Category:         models.ReportCategory(req.Category),
		SpecificLocation: strings.TrimSpace(req.SpecificLocation),
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		BarangayCode:     req.BarangayCode,
		IsAnonymous:      req.IsAnonymous,
		ContactInfo:      strings.TrimSpace(req.ContactInfo),
		PushToken:        req.PushToken,
		PhotoURLs:        req.PhotoURLs,
		Status:           models.StatusSubmitted,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	// fold legacy urgency aliases onto the canonical set before validation
	if urgency, ok := models.ParseUrgency(req.Urgency); ok {
		report.Urgency = urgency
	} else {
		report.Urgency = models.ReportUrgency(req.Urgency)
	}

	if b, ok := models.BarangayByCode(req.BarangayCode); ok {
		report.BarangayName = b.Name
	}

	changedBy := "guest"
	if req.ReporterID != "" {
		rid, err := primitive.ObjectIDFromHex(req.ReporterID)
		if err != nil {
			config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
			return
		}
		report.ReporterID = &rid
		changedBy = rid.Hex()
	}

	if err := workflow.ValidateNewReport(&report); err != nil {
		config.ErrorStatus("report validation failed", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	seq, err := re.CTR.NextSequence(ctx, "reports")
	if err != nil {
		config.ErrorStatus("failed to allocate report number", http.StatusServiceUnavailable, w, err)
		return
	}
	report.ReportNumber = fmt.Sprintf("AYS-%d-%05d", now.Year(), seq)
	report.PriorityScore = workflow.Score(report.Category, report.Urgency, report.CreatedAt, now)
	report.ID = primitive.NewObjectID()

	if _, err := re.RDB.InsertOne(ctx, report); err != nil {
		config.ErrorStatus("failed to create report", http.StatusServiceUnavailable, w, err)
		return
	}

	// the creation event is the first entry in the audit trail
	entry := models.StatusHistoryEntry{
		ReportID:  report.ID,
		NewStatus: models.StatusSubmitted,
		ChangedBy: changedBy,
		CreatedAt: now,
	}
	if _, err := re.HDB.InsertOne(ctx, entry); err != nil {
		zap.S().Errorw("failed to record creation history entry", "reportId", report.ID.Hex(), "error", err)
	}

	re.Feed.BroadcastReportEvent("report_created", report)

	b, err := json.Marshal(report)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// ReportByIDHandler returns a report by ID
func (re Report) ReportByIDHandler(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["report_id"]

	zap.S().Debugf("report_id: %v", reportID)

	rID, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := re.RDB.FindOne(ctx, bson.M{"_id": rID, "deleted": false})
	if err != nil {
		config.ErrorStatus("failed to get report by ID", http.StatusNotFound, w, err)
		return
	}
	dbResp.PriorityScore = workflow.Score(dbResp.Category, dbResp.Urgency, dbResp.CreatedAt, time.Now().UTC())

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ReportsHandler returns reports matching the query-string criteria,
// scored and sorted for the ops queue
func (re Report) ReportsHandler(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		config.ErrorStatus("invalid filter criteria", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	reports, err := re.findReportsWithRetry(ctx, bson.M{"deleted": false})
	if err != nil {
		config.ErrorStatus("failed to get reports", http.StatusServiceUnavailable, w, err)
		return
	}

	now := time.Now().UTC()
	for i := range reports {
		reports[i].PriorityScore = workflow.Score(reports[i].Category, reports[i].Urgency, reports[i].CreatedAt, now)
	}

	filtered := workflow.Filter(reports, criteria)

	// Because the frontend requires that the data elements exist, if
	// len == 0 then we will just return an empty data object
	if len(filtered) == 0 {
		filtered = []models.Report{}
	}
	b, err := json.Marshal(filtered)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// UpdateReportStatusHandler moves a report through the status workflow.
// The write is conditional on the status we read; losing the race returns
// a conflict and the caller retries against fresh state.
func (re Report) UpdateReportStatusHandler(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["report_id"]
	rID, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	target, ok := models.ParseStatus(req.Status)
	if !ok {
		config.ErrorStatus("unknown status", http.StatusBadRequest, w, fmt.Errorf("unknown status %q", req.Status))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	actor, err := re.loadActor(ctx, req.ActorID)
	if err != nil {
		config.ErrorStatus("failed to resolve acting staff", http.StatusUnauthorized, w, err)
		return
	}

	report, err := re.RDB.FindOne(ctx, bson.M{"_id": rID, "deleted": false})
	if err != nil {
		config.ErrorStatus("failed to get report by ID", http.StatusNotFound, w, err)
		return
	}

	from := report.Status
	now := time.Now().UTC()
	entry, err := workflow.Transition(report, target, actor, req.Note, now)
	if err != nil {
		config.ErrorStatus("transition rejected", http.StatusForbidden, w, err)
		return
	}

	set := bson.M{
		"status":    report.Status,
		"updatedAt": report.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if target == models.StatusResolved && report.ResolvedAt != nil {
		set["resolvedAt"] = report.ResolvedAt
		set["resolvedBy"] = report.ResolvedBy
	}
	if target == models.StatusReopened {
		update["$unset"] = bson.M{"resolvedAt": "", "resolvedBy": ""}
	}

	updated, err := re.RDB.FindOneAndUpdate(ctx,
		bson.M{"_id": rID, "status": from, "deleted": false}, update)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			conflict := &workflow.ConflictError{ReportID: rID.Hex()}
			config.ErrorStatus("report changed concurrently", http.StatusConflict, w, conflict)
			return
		}
		config.ErrorStatus("failed to update report", http.StatusServiceUnavailable, w, err)
		return
	}

	if _, err := re.HDB.InsertOne(ctx, *entry); err != nil {
		zap.S().Errorw("failed to append status history", "reportId", rID.Hex(), "error", err)
	}

	// notifications are informational and never roll back the transition
	go re.notifyStatusChange(*updated, from)

	b, err := json.Marshal(updated)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AssignReportHandler attaches a staff member to a report after checking
// duty, department and zone preconditions
func (re Report) AssignReportHandler(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["report_id"]
	rID, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	actor, err := re.loadActor(ctx, req.ActorID)
	if err != nil {
		config.ErrorStatus("failed to resolve acting staff", http.StatusUnauthorized, w, err)
		return
	}

	sID, err := primitive.ObjectIDFromHex(req.StaffID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	staff, err := re.SDB.FindOne(ctx, bson.M{"_id": sID})
	if err != nil {
		config.ErrorStatus("failed to get staff by ID", http.StatusNotFound, w, err)
		return
	}

	report, err := re.RDB.FindOne(ctx, bson.M{"_id": rID, "deleted": false})
	if err != nil {
		config.ErrorStatus("failed to get report by ID", http.StatusNotFound, w, err)
		return
	}

	re.completeAssignment(w, r, report, staff, actor)
}

// AutoAssignReportHandler picks the next eligible on-duty staff member in
// rotation. When nobody qualifies the report simply stays triaged.
func (re Report) AutoAssignReportHandler(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["report_id"]
	rID, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	actor, err := re.loadActor(ctx, req.ActorID)
	if err != nil {
		config.ErrorStatus("failed to resolve acting staff", http.StatusUnauthorized, w, err)
		return
	}

	report, err := re.RDB.FindOne(ctx, bson.M{"_id": rID, "deleted": false})
	if err != nil {
		config.ErrorStatus("failed to get report by ID", http.StatusNotFound, w, err)
		return
	}

	// fixed _id order keeps the rotation cursor meaningful between calls
	candidates, err := re.SDB.Find(ctx,
		bson.M{"onDuty": true, "active": true},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		config.ErrorStatus("failed to list on-duty staff", http.StatusServiceUnavailable, w, err)
		return
	}

	picked := re.Rotation.Pick(report, candidates)
	if picked == nil {
		zap.S().Infow("no eligible staff for auto-assignment", "reportId", rID.Hex())
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"assigned": false, "message": "no eligible on-duty staff, report remains triaged"}`))
		return
	}

	re.completeAssignment(w, r, report, picked, actor)
}

// completeAssignment runs the assignment rules and performs the
// conditional write shared by manual and auto assignment
func (re Report) completeAssignment(w http.ResponseWriter, r *http.Request, report *models.Report, staff *models.OperationsStaff, actor workflow.Actor) {
	from := report.Status
	now := time.Now().UTC()

	entry, err := workflow.Assign(report, staff, actor, now)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if _, ok := err.(*workflow.InvalidTransitionError); ok {
			status = http.StatusForbidden
		}
		config.ErrorStatus("assignment rejected", status, w, err)
		return
	}

	update := bson.M{"$set": bson.M{
		"status":     report.Status,
		"assignedTo": report.AssignedTo,
		"assignedAt": report.AssignedAt,
		"updatedAt":  report.UpdatedAt,
	}}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	updated, err := re.RDB.FindOneAndUpdate(ctx,
		bson.M{"_id": report.ID, "status": from, "deleted": false}, update)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			conflict := &workflow.ConflictError{ReportID: report.ID.Hex()}
			config.ErrorStatus("report changed concurrently", http.StatusConflict, w, conflict)
			return
		}
		config.ErrorStatus("failed to update report", http.StatusServiceUnavailable, w, err)
		return
	}

	if entry != nil {
		if _, err := re.HDB.InsertOne(ctx, *entry); err != nil {
			zap.S().Errorw("failed to append status history", "reportId", report.ID.Hex(), "error", err)
		}
	}

	go re.notifyAssignment(*updated, *staff)

	b, err := json.Marshal(updated)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AddCommentHandler attaches a comment to a report. Internal comments are
// operator-only notes.
func (re Report) AddCommentHandler(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["report_id"]
	rID, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var comment models.Comment
	if err := json.NewDecoder(r.Body).Decode(&comment); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if strings.TrimSpace(comment.Body) == "" {
		config.ErrorStatus("comment body required", http.StatusBadRequest, w, fmt.Errorf("empty comment body"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	// existence check only, no need to pull the document
	count, err := re.RDB.CountDocuments(ctx, bson.M{"_id": rID, "deleted": false})
	if err != nil {
		config.ErrorStatus("failed to get report by ID", http.StatusServiceUnavailable, w, err)
		return
	}
	if count == 0 {
		config.ErrorStatus("failed to get report by ID", http.StatusNotFound, w, fmt.Errorf("report %s not found", rID.Hex()))
		return
	}

	comment.ID = primitive.NewObjectID()
	comment.ReportID = rID
	comment.CreatedAt = time.Now().UTC()

	if _, err := re.CDB.InsertOne(ctx, comment); err != nil {
		config.ErrorStatus("failed to create comment", http.StatusServiceUnavailable, w, err)
		return
	}

	b, err := json.Marshal(comment)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// CommentsHandler returns the comments on a report, oldest first.
// Internal notes are only included when requested by the ops console.
func (re Report) CommentsHandler(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["report_id"]
	rID, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	includeInternal, _ := strconv.ParseBool(r.URL.Query().Get("include_internal"))

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	comments, err := re.CDB.Find(ctx, bson.M{"reportId": rID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		config.ErrorStatus("failed to get comments", http.StatusServiceUnavailable, w, err)
		return
	}

	visible := make([]models.Comment, 0, len(comments))
	for _, c := range comments {
		if c.IsInternal && !includeInternal {
			continue
		}
		visible = append(visible, c)
	}

	b, err := json.Marshal(visible)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// HistoryHandler returns the append-only status history of a report in
// chronological order
func (re Report) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["report_id"]
	rID, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	entries, err := re.HDB.Find(ctx, bson.M{"reportId": rID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		config.ErrorStatus("failed to get status history", http.StatusServiceUnavailable, w, err)
		return
	}
	if len(entries) == 0 {
		entries = []models.StatusHistoryEntry{}
	}

	b, err := json.Marshal(entries)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// DeleteReportHandler soft-deletes a report. The row stays for the audit
// trail but disappears from every listing and aggregate.
func (re Report) DeleteReportHandler(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["report_id"]
	rID, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	matched, err := re.RDB.UpdateOne(ctx,
		bson.M{"_id": rID, "deleted": false},
		bson.M{"$set": bson.M{"deleted": true, "updatedAt": time.Now().UTC()}})
	if err != nil {
		config.ErrorStatus("failed to delete report", http.StatusServiceUnavailable, w, err)
		return
	}
	if matched == 0 {
		config.ErrorStatus("failed to get report by ID", http.StatusNotFound, w, fmt.Errorf("report %s not found", rID.Hex()))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"deleted": true}`))
}

// DashboardHandler recomputes the dashboard statistics over the current
// non-deleted reports. Eventually consistent by design; a few seconds of
// staleness is acceptable here.
func (re Report) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	reports, err := re.findReportsWithRetry(ctx, bson.M{"deleted": false})
	if err != nil {
		config.ErrorStatus("failed to get reports", http.StatusServiceUnavailable, w, err)
		return
	}

	stats := workflow.Aggregate(reports)

	b, err := json.Marshal(stats)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// MapHandler returns slim markers for every geotagged, non-deleted report
func (re Report) MapHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	reports, err := re.findReportsWithRetry(ctx, bson.M{
		"deleted":  false,
		"latitude": bson.M{"$exists": true, "$ne": nil},
	})
	if err != nil {
		config.ErrorStatus("failed to get reports", http.StatusServiceUnavailable, w, err)
		return
	}

	type marker struct {
		ID            string                `json:"id"`
		Latitude      float64               `json:"latitude"`
		Longitude     float64               `json:"longitude"`
		Category      models.ReportCategory `json:"category"`
		Urgency       models.ReportUrgency  `json:"urgency"`
		Status        models.ReportStatus   `json:"status"`
		PriorityScore int                   `json:"priorityScore"`
	}

	now := time.Now().UTC()
	markers := make([]marker, 0, len(reports))
	for _, rep := range reports {
		if rep.Latitude == nil || rep.Longitude == nil {
			continue
		}
		markers = append(markers, marker{
			ID:            rep.ID.Hex(),
			Latitude:      *rep.Latitude,
			Longitude:     *rep.Longitude,
			Category:      rep.Category,
			Urgency:       rep.Urgency,
			Status:        rep.Status,
			PriorityScore: workflow.Score(rep.Category, rep.Urgency, rep.CreatedAt, now),
		})
	}

	b, err := json.Marshal(markers)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// loadActor resolves the acting staff member into the explicit identity
// the workflow rules receive
func (re Report) loadActor(ctx context.Context, actorID string) (workflow.Actor, error) {
	aID, err := primitive.ObjectIDFromHex(actorID)
	if err != nil {
		return workflow.Actor{}, fmt.Errorf("invalid actor id %q", actorID)
	}
	staff, err := re.SDB.FindOne(ctx, bson.M{"_id": aID, "active": true})
	if err != nil {
		return workflow.Actor{}, fmt.Errorf("acting staff not found: %w", err)
	}
	return workflow.Actor{ID: staff.ID.Hex(), Name: staff.Name, Role: staff.Role}, nil
}

// findReportsWithRetry wraps the read path with a small bounded retry.
// Only the transient backend failure is retried; everything else surfaces
// immediately.
func (re Report) findReportsWithRetry(ctx context.Context, filter bson.M) ([]models.Report, error) {
	var reports []models.Report
	var err error
	backoff := 100 * time.Millisecond
	for attempt := 0; attempt < 3; attempt++ {
		reports, err = re.RDB.Find(ctx, filter)
		if err == nil {
			return reports, nil
		}
		if err == mongo.ErrNoDocuments {
			return []models.Report{}, nil
		}
		zap.S().Warnw("report read failed, retrying", "attempt", attempt+1, "error", err)
		time.Sleep(backoff)
		backoff *= 2
	}
	return nil, &workflow.BackendUnavailableError{Op: "find reports", Err: err}
}

// parseCriteria maps the query string onto the workflow filter criteria
func parseCriteria(r *http.Request) (workflow.Criteria, error) {
	q := r.URL.Query()
	c := workflow.Criteria{
		SearchText: q.Get("search"),
		Sort:       workflow.SortKey(q.Get("sort")),
	}

	for _, raw := range splitCSV(q.Get("status")) {
		st, ok := models.ParseStatus(raw)
		if !ok {
			return c, fmt.Errorf("unknown status %q", raw)
		}
		c.Statuses = append(c.Statuses, st)
	}
	for _, raw := range splitCSV(q.Get("category")) {
		cat, ok := models.ParseCategory(raw)
		if !ok {
			return c, fmt.Errorf("unknown category %q", raw)
		}
		c.Categories = append(c.Categories, cat)
	}
	for _, raw := range splitCSV(q.Get("urgency")) {
		u, ok := models.ParseUrgency(raw)
		if !ok {
			return c, fmt.Errorf("unknown urgency %q", raw)
		}
		c.Urgencies = append(c.Urgencies, u)
	}
	c.BarangayCodes = splitCSV(q.Get("barangay"))
	c.AssignedTo = splitCSV(q.Get("assigned_to"))

	if raw := q.Get("date_from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c, fmt.Errorf("invalid date_from: %v", err)
		}
		c.DateFrom = &t
	}
	if raw := q.Get("date_to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c, fmt.Errorf("invalid date_to: %v", err)
		}
		c.DateTo = &t
	}
	return c, nil
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
