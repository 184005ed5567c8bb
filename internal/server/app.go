// internal/server/app.go

// Package server is the HTTP surface: auth, loan type reference data, the
// multipart application submission endpoint and the owner/admin CRUD routes.
package server

import (
	"net/http"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"financeflow/internal/common/config"
	"financeflow/internal/common/logger"
	"financeflow/internal/common/observability"
	"financeflow/internal/loanid"
	"financeflow/internal/notify"
	"financeflow/internal/otp"
	"financeflow/internal/repository"
	"financeflow/internal/search"
)

// App wires the handlers to their collaborators.
type App struct {
	cfg      *config.Config
	logger   logger.Logger
	validate *validator.Validate
	trans    ut.Translator

	users        *repository.UserRepo
	applications *repository.LoanApplicationRepo
	loanTypes    *repository.LoanTypeRepo
	loanIDs      *loanid.Generator
	otp          *otp.Service
	notifier     *notify.Notifier
	indexer      *search.Indexer
	obs          *observability.Observability
}

// Options carries the collaborators main assembles. OTP, notifier, indexer
// and observability are optional; missing ones degrade the matching feature.
type Options struct {
	Config       *config.Config
	Logger       logger.Logger
	Users        *repository.UserRepo
	Applications *repository.LoanApplicationRepo
	LoanTypes    *repository.LoanTypeRepo
	LoanIDs      *loanid.Generator
	OTP          *otp.Service
	Notifier     *notify.Notifier
	Indexer      *search.Indexer
	Obs          *observability.Observability
}

func NewApp(opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = logger.NewStructured("info", "json")
	}

	validate := validator.New()
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	entranslations.RegisterDefaultTranslations(validate, trans)

	return &App{
		cfg:          opts.Config,
		logger:       opts.Logger.WithFields(map[string]interface{}{"component": "server"}),
		validate:     validate,
		trans:        trans,
		users:        opts.Users,
		applications: opts.Applications,
		loanTypes:    opts.LoanTypes,
		loanIDs:      opts.LoanIDs,
		otp:          opts.OTP,
		notifier:     opts.Notifier,
		indexer:      opts.Indexer,
		obs:          opts.Obs,
	}
}

// Router builds the full route table.
func (a *App) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(a.Instrument)

	r.HandleFunc("/healthz", a.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", a.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", a.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/verify-otp", a.handleVerifyOTP).Methods(http.MethodPost)
	api.HandleFunc("/loan-types", a.handleLoanTypes).Methods(http.MethodGet)

	authed := api.NewRoute().Subrouter()
	authed.Use(a.JwtVerify)
	authed.HandleFunc("/loan-applications", a.handleListApplications).Methods(http.MethodGet)
	authed.HandleFunc("/loan-applications", a.handleSubmitApplication).Methods(http.MethodPost)
	authed.HandleFunc("/loan-applications/{id}", a.handleGetApplication).Methods(http.MethodGet)
	authed.HandleFunc("/loan-applications/{id}", a.handleUpdateApplication).Methods(http.MethodPut)
	authed.HandleFunc("/loan-applications/{id}", a.handleDeleteApplication).Methods(http.MethodDelete)

	admin := api.NewRoute().Subrouter()
	admin.Use(a.JwtVerify, RequireRole("admin"))
	admin.HandleFunc("/loan-applications/{id}/status", a.handleUpdateStatus).Methods(http.MethodPut)
	admin.HandleFunc("/admin/loan-applications/search", a.handleSearchApplications).Methods(http.MethodGet)

	return r
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// validationMessage flattens validator errors into one readable string.
func (a *App) validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msg := ""
	for i, fe := range verrs {
		if i > 0 {
			msg += "; "
		}
		msg += fe.Translate(a.trans)
	}
	return msg
}
