package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/ayos-surigao/ayos-api/api"
	"github.com/ayos-surigao/ayos-api/api/scheduler"
	"github.com/ayos-surigao/ayos-api/config"
	"github.com/ayos-surigao/ayos-api/databases"
	"github.com/ayos-surigao/ayos-api/models"
	"github.com/ayos-surigao/ayos-api/workflow"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router   *mux.Router
	DB       databases.CollectionHelper
	Config   config.Config
	dbHelper databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewStaffDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	r := mux.NewRouter()

	feed := NewFeedHub()
	re := Report{
		RDB:      databases.NewReportDatabase(a.dbHelper),
		SDB:      databases.NewStaffDatabase(a.dbHelper),
		HDB:      databases.NewStatusHistoryDatabase(a.dbHelper),
		CDB:      databases.NewCommentDatabase(a.dbHelper),
		CTR:      databases.NewCounterDatabase(a.dbHelper),
		Feed:     feed,
		Rotation: &workflow.Rotation{},
	}
	st := Staff{DB: databases.NewStaffDatabase(a.dbHelper)}
	auth := Auth{SDB: databases.NewStaffDatabase(a.dbHelper)}
	cloudinaryHandler := CloudinaryHandler{}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/auth/token", api.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")
	apiCreate.Handle("/auth/login", http.HandlerFunc(auth.LoginHandler)).Methods("POST")

	// residents and guests submit without credentials
	apiCreate.Handle("/report", http.HandlerFunc(re.CreateReportHandler)).Methods("POST")
	apiCreate.Handle("/report/{report_id}", api.Middleware(http.HandlerFunc(re.ReportByIDHandler))).Methods("GET")
	apiCreate.Handle("/report/{report_id}/status", api.Middleware(http.HandlerFunc(re.UpdateReportStatusHandler))).Methods("PUT")
	apiCreate.Handle("/report/{report_id}/assign", api.Middleware(http.HandlerFunc(re.AssignReportHandler))).Methods("PUT")
	apiCreate.Handle("/report/{report_id}/auto-assign", api.Middleware(http.HandlerFunc(re.AutoAssignReportHandler))).Methods("POST")
	apiCreate.Handle("/report/{report_id}/comments", api.Middleware(http.HandlerFunc(re.AddCommentHandler))).Methods("POST")
	apiCreate.Handle("/report/{report_id}/comments", api.Middleware(http.HandlerFunc(re.CommentsHandler))).Methods("GET")
	apiCreate.Handle("/report/{report_id}/history", api.Middleware(http.HandlerFunc(re.HistoryHandler))).Methods("GET")
	apiCreate.Handle("/report/{report_id}",
		api.ConsoleJWT(string(models.RoleSystemAdmin), string(models.RoleOperationsManager))(
			http.HandlerFunc(re.DeleteReportHandler))).Methods("DELETE")

	apiCreate.Handle("/reports", api.Middleware(http.HandlerFunc(re.ReportsHandler))).Methods("GET")
	apiCreate.Handle("/reports/dashboard", api.Middleware(http.HandlerFunc(re.DashboardHandler))).Methods("GET")
	apiCreate.Handle("/reports/map", http.HandlerFunc(re.MapHandler)).Methods("GET")

	apiCreate.Handle("/staff",
		api.ConsoleJWT(string(models.RoleSystemAdmin))(
			http.HandlerFunc(st.CreateStaffHandler))).Methods("POST")
	apiCreate.Handle("/staff", api.Middleware(http.HandlerFunc(st.StaffListHandler))).Methods("GET")
	apiCreate.Handle("/staff/{staff_id}", api.Middleware(http.HandlerFunc(st.StaffByIDHandler))).Methods("GET")
	apiCreate.Handle("/staff/{staff_id}/duty", api.Middleware(http.HandlerFunc(st.UpdateDutyHandler))).Methods("PUT")
	apiCreate.Handle("/staff/{staff_id}",
		api.ConsoleJWT(string(models.RoleSystemAdmin))(
			http.HandlerFunc(st.DeactivateStaffHandler))).Methods("DELETE")

	apiCreate.Handle("/generate-signature", api.Middleware(http.HandlerFunc(cloudinaryHandler.GenerateSignature))).Methods("POST")

	r.HandleFunc("/ws/feed", feed.HandleFeedWebSocket)

	// swagger docs hosted at "/"
	r.PathPrefix("/").Handler(http.StripPrefix("/", http.FileServer(http.Dir("./docs/"))))
	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("ayos-api has connected to the database")

	// start the digest scheduler
	s := scheduler.NewScheduler(
		databases.NewReportDatabase(a.dbHelper),
		databases.NewStaffDatabase(a.dbHelper),
		databases.NewSchedulerLockDatabase(a.dbHelper),
		&a.Config,
	)
	s.Start()

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
