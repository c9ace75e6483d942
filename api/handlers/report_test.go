package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ayos-surigao/ayos-api/api/handlers"
	"github.com/ayos-surigao/ayos-api/databases"
	"github.com/ayos-surigao/ayos-api/databases/mocks"
	"github.com/ayos-surigao/ayos-api/models"
)

type MockDatabaseHelper struct {
	mock.Mock
}

// Client provides a mock function.
func (_m *MockDatabaseHelper) Client() databases.ClientHelper {
	ret := _m.Called()

	var r0 databases.ClientHelper
	if rf, ok := ret.Get(0).(func() databases.ClientHelper); ok {
		r0 = rf()
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(databases.ClientHelper)
		}
	}

	return r0
}

// Collection provides a mock function.
func (_m *MockDatabaseHelper) Collection(name string) databases.CollectionHelper {
	ret := _m.Called(name)

	var r0 databases.CollectionHelper
	if rf, ok := ret.Get(0).(func(string) databases.CollectionHelper); ok {
		r0 = rf(name)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(databases.CollectionHelper)
		}
	}

	return r0
}

func TestReport_ReportByIDHandler(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/report/1234", nil)
	if err != nil {
		t.Fatal(err)
	}

	req = mux.SetURLVars(req, map[string]string{"report_id": "1234"})
	req.Header.Set("Authorization", "Bearer abc123")

	var db databases.DatabaseHelper
	db = &MockDatabaseHelper{} // can be used as db = &mocks.DatabaseHelper{}

	reportDatabase := databases.NewReportDatabase(db)
	re := handlers.Report{
		RDB: reportDatabase,
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(re.ReportByIDHandler)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusBadRequest {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusBadRequest)
	}

	expected := `{"response": "failed to get objectID from Hex, the provided hex string is not a valid ObjectID"}`
	if rr.Body.String() != expected {
		t.Errorf("handler returned unexpected body: \ngot: %v \nwant: %v", rr.Body.String(), expected)
	}
}

func TestReport_ReportByIDHandlerFailedToFindOne(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/report/608cafe595eb9dc05379ffff", nil)
	if err != nil {
		t.Fatal(err)
	}

	req = mux.SetURLVars(req, map[string]string{"report_id": "608cafe595eb9dc05379ffff"})
	req.Header.Set("Authorization", "Bearer abc123")

	var db databases.DatabaseHelper
	var conn databases.CollectionHelper
	var singleResultHelper databases.SingleResultHelper

	db = &MockDatabaseHelper{}
	conn = &mocks.CollectionHelper{}
	singleResultHelper = &mocks.SingleResultHelper{}

	singleResultHelper.(*mocks.SingleResultHelper).On("Decode", mock.Anything).Return(errors.New("mongo: no documents in result"))
	conn.(*mocks.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.(*MockDatabaseHelper).On("Collection", "reports").Return(conn)

	reportDatabase := databases.NewReportDatabase(db)
	re := handlers.Report{
		RDB: reportDatabase,
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(re.ReportByIDHandler)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusNotFound {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusNotFound)
	}

	expected := `{"response": "failed to get report by ID, mongo: no documents in result"}`
	if rr.Body.String() != expected {
		t.Errorf("handler returned unexpected body: \ngot: %v \nwant: %v", rr.Body.String(), expected)
	}
}

func TestReport_CreateReportHandlerValidationFailure(t *testing.T) {
	body, _ := json.Marshal(map[string]interface{}{
		"title":        "Bad",
		"description":  "too short",
		"category":     "road_damage",
		"urgency":      "high",
		"barangayCode": "SUR-034",
	})
	req, err := http.NewRequest("POST", "/api/v1/report", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}

	re := handlers.Report{}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(re.CreateReportHandler)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusBadRequest {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusBadRequest)
	}
	assert.Contains(t, rr.Body.String(), "report validation failed")
	assert.Contains(t, rr.Body.String(), "title")
}

func TestReport_UpdateReportStatusHandlerInvalidTransition(t *testing.T) {
	actorID := primitive.NewObjectID()
	reportID := primitive.NewObjectID()

	body, _ := json.Marshal(map[string]string{
		"status":  "triaged",
		"actorId": actorID.Hex(),
		"note":    "looks legit",
	})
	req, err := http.NewRequest("PUT", "/api/v1/report/"+reportID.Hex()+"/status", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"report_id": reportID.Hex()})
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	staffConn := &mocks.CollectionHelper{}
	reportConn := &mocks.CollectionHelper{}
	staffResult := &mocks.SingleResultHelper{}
	reportResult := &mocks.SingleResultHelper{}

	// the actor is a field coordinator, who may not triage submissions
	staffResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.OperationsStaff)
		(*arg).ID = actorID
		(*arg).Name = "Rico Delos Santos"
		(*arg).Role = models.RoleFieldCoordinator
		(*arg).Active = true
	})
	staffConn.On("FindOne", mock.Anything, mock.Anything).Return(staffResult)
	db.On("Collection", "staff").Return(staffConn)

	reportResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Report)
		(*arg).ID = reportID
		(*arg).Status = models.StatusSubmitted
	})
	reportConn.On("FindOne", mock.Anything, mock.Anything).Return(reportResult)
	db.On("Collection", "reports").Return(reportConn)

	re := handlers.Report{
		RDB: databases.NewReportDatabase(db),
		SDB: databases.NewStaffDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(re.UpdateReportStatusHandler)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusForbidden {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusForbidden)
	}
	assert.Contains(t, rr.Body.String(), "transition rejected")
}

func TestReport_UpdateReportStatusHandlerConflict(t *testing.T) {
	actorID := primitive.NewObjectID()
	reportID := primitive.NewObjectID()

	body, _ := json.Marshal(map[string]string{
		"status":  "triaged",
		"actorId": actorID.Hex(),
	})
	req, err := http.NewRequest("PUT", "/api/v1/report/"+reportID.Hex()+"/status", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"report_id": reportID.Hex()})
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	staffConn := &mocks.CollectionHelper{}
	reportConn := &mocks.CollectionHelper{}
	staffResult := &mocks.SingleResultHelper{}
	reportResult := &mocks.SingleResultHelper{}
	updateResult := &mocks.SingleResultHelper{}

	staffResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.OperationsStaff)
		(*arg).ID = actorID
		(*arg).Name = "Mila Ravelo"
		(*arg).Role = models.RoleOperationsManager
		(*arg).Active = true
	})
	staffConn.On("FindOne", mock.Anything, mock.Anything).Return(staffResult)
	db.On("Collection", "staff").Return(staffConn)

	reportResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Report)
		(*arg).ID = reportID
		(*arg).Status = models.StatusSubmitted
	})
	reportConn.On("FindOne", mock.Anything, mock.Anything).Return(reportResult)

	// another writer advanced the report between our read and write
	updateResult.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
	reportConn.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(updateResult)
	db.On("Collection", "reports").Return(reportConn)

	re := handlers.Report{
		RDB: databases.NewReportDatabase(db),
		SDB: databases.NewStaffDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(re.UpdateReportStatusHandler)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusConflict {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusConflict)
	}
	assert.Contains(t, rr.Body.String(), "report changed concurrently")
}

func TestReport_AssignReportHandlerZoneMismatch(t *testing.T) {
	actorID := primitive.NewObjectID()
	staffID := primitive.NewObjectID()
	reportID := primitive.NewObjectID()

	body, _ := json.Marshal(map[string]string{
		"staffId": staffID.Hex(),
		"actorId": actorID.Hex(),
	})
	req, err := http.NewRequest("PUT", "/api/v1/report/"+reportID.Hex()+"/assign", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"report_id": reportID.Hex()})
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	staffConn := &mocks.CollectionHelper{}
	reportConn := &mocks.CollectionHelper{}
	staffResult := &mocks.SingleResultHelper{}
	reportResult := &mocks.SingleResultHelper{}

	// both the actor lookup and the assignee lookup hit the staff
	// collection; the Run hook shapes whichever document is asked for
	calls := 0
	staffResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.OperationsStaff)
		calls++
		if calls == 1 {
			(*arg).ID = actorID
			(*arg).Name = "Mila Ravelo"
			(*arg).Role = models.RoleOperationsManager
			(*arg).Active = true
			return
		}
		(*arg).ID = staffID
		(*arg).Name = "Rico Delos Santos"
		(*arg).Role = models.RoleFieldCoordinator
		(*arg).Department = models.DepartmentFieldOperations
		(*arg).Zone = models.ZoneWest
		(*arg).OnDuty = true
		(*arg).Active = true
	})
	staffConn.On("FindOne", mock.Anything, mock.Anything).Return(staffResult)
	db.On("Collection", "staff").Return(staffConn)

	// Taft sits in the north zone, so a west coordinator is ineligible
	reportResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Report)
		(*arg).ID = reportID
		(*arg).Status = models.StatusTriaged
		(*arg).Category = models.CategoryRoadDamage
		(*arg).BarangayCode = "SUR-034"
	})
	reportConn.On("FindOne", mock.Anything, mock.Anything).Return(reportResult)
	db.On("Collection", "reports").Return(reportConn)

	re := handlers.Report{
		RDB: databases.NewReportDatabase(db),
		SDB: databases.NewStaffDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(re.AssignReportHandler)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusUnprocessableEntity {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusUnprocessableEntity)
	}
	assert.Contains(t, rr.Body.String(), "zone_mismatch")
}

func TestReport_DashboardHandler(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/reports/dashboard", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}

	cursor.On("All", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(1).(*[]models.Report)
		*arg = []models.Report{
			{ID: primitive.NewObjectID(), Status: models.StatusSubmitted, Urgency: models.UrgencyCritical, Category: models.CategoryRoadDamage, BarangayCode: "SUR-034"},
			{ID: primitive.NewObjectID(), Status: models.StatusResolved, Urgency: models.UrgencyLow, Category: models.CategoryOther, BarangayCode: "SUR-037"},
		}
	})
	conn.On("Find", mock.Anything, mock.Anything).Return(cursor, nil)
	db.On("Collection", "reports").Return(conn)

	re := handlers.Report{
		RDB: databases.NewReportDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(re.DashboardHandler)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	var stats models.DashboardStats
	if err := json.Unmarshal(rr.Body.Bytes(), &stats); err != nil {
		t.Fatalf("failed to unmarshal dashboard response: %v", err)
	}
	assert.Equal(t, 2, stats.TotalReports)
	assert.Equal(t, 1, stats.PendingReports)
	assert.Equal(t, 1, stats.ResolvedReports)
	assert.Equal(t, 1, stats.CriticalReports)
	assert.Equal(t, 0.5, stats.ResolutionRate)
}

func TestReport_AddCommentHandlerReportNotFound(t *testing.T) {
	reportID := primitive.NewObjectID()

	body, _ := json.Marshal(map[string]interface{}{
		"author": "Mila Ravelo",
		"body":   "any updates on this one?",
	})
	req, err := http.NewRequest("POST", "/api/v1/report/"+reportID.Hex()+"/comments", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"report_id": reportID.Hex()})
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}

	// the existence check counts rather than fetching, and runs under the
	// query deadline every store call gets
	conn.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil).Run(func(args mock.Arguments) {
		ctx := args.Get(0).(context.Context)
		if _, ok := ctx.Deadline(); !ok {
			t.Error("expected the count query context to carry a deadline")
		}
	})
	db.On("Collection", "reports").Return(conn)

	re := handlers.Report{
		RDB: databases.NewReportDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(re.AddCommentHandler)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusNotFound {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusNotFound)
	}
	assert.Contains(t, rr.Body.String(), "failed to get report by ID")
}

func TestReport_ReportsHandlerUnknownStatusFilter(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/reports?status=bogus", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	re := handlers.Report{}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(re.ReportsHandler)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusBadRequest {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusBadRequest)
	}
	assert.Contains(t, rr.Body.String(), "invalid filter criteria")
}
