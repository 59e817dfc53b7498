package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	"github.com/tbourn/go-errpage-embed/internal/domain"
	"github.com/tbourn/go-errpage-embed/internal/observability"
	"github.com/tbourn/go-errpage-embed/internal/repo"
)

// Validation messages returned to the widget.
const (
	MsgRequired     = "This field is required."
	MsgInvalidEmail = "Enter a valid email address."
	msgMaxLength    = "Ensure this value has at most %d characters (it has %d)."
)

// ReportForm is the submitted feedback form. Field names in errors use the
// form tag.
type ReportForm struct {
	Name     string `form:"name"     validate:"required,max=128"`
	Email    string `form:"email"    validate:"required,email,max=75"`
	Comments string `form:"comments" validate:"required"`
	NotifyMe bool   `form:"notifyme"`
}

// Clean trims surrounding whitespace and NFC-normalizes the text fields.
func (f ReportForm) Clean() ReportForm {
	clean := func(s string) string { return norm.NFC.String(strings.TrimSpace(s)) }
	f.Name = clean(f.Name)
	f.Email = clean(f.Email)
	f.Comments = clean(f.Comments)
	return f
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateForm checks a cleaned form and returns nil when it is valid.
// Each failing field reports the message of its first failing rule.
func ValidateForm(f ReportForm) FieldErrors {
	err := formValidator.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"__all__": {err.Error()}}
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		out.Add(fe.Field(), messageFor(fe))
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "email":
		return MsgInvalidEmail
	case "max":
		limit, _ := strconv.Atoi(fe.Param())
		s, _ := fe.Value().(string)
		return fmt.Sprintf(msgMaxLength, limit, utf8.RuneCountInString(s))
	default:
		return fmt.Sprintf("Invalid value (%s).", fe.Tag())
	}
}

// ReportStore is the persistence the report service needs.
type ReportStore interface {
	FindGroupByEvent(ctx context.Context, projectID uint, eventID string) (*domain.Group, error)
	CreateUserReport(ctx context.Context, r *domain.UserReport) error
}

// GormReportStore implements ReportStore with the repo package.
type GormReportStore struct {
	DB *gorm.DB
}

func (s GormReportStore) FindGroupByEvent(ctx context.Context, projectID uint, eventID string) (*domain.Group, error) {
	return repo.FindGroupByEvent(ctx, s.DB, projectID, eventID)
}

func (s GormReportStore) CreateUserReport(ctx context.Context, r *domain.UserReport) error {
	return repo.CreateUserReport(ctx, s.DB, r)
}

// ReportService validates and stores user reports.
type ReportService struct {
	Store ReportStore
}

// NewReportService returns a ReportService persisting through db.
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{Store: GormReportStore{DB: db}}
}

// Submit validates form and persists a report for eventID under key's project.
//
// The report is linked to a group when the event has already been ingested;
// otherwise it is stored unlinked and the backfiller links it later.
// Duplicate submissions for one event are stored as separate reports.
//
// Errors:
//   - ErrMissingEventID when eventID is empty. Any other value, including
//     whitespace, is stored as given.
//   - *ValidationError when the form is invalid.
//   - The underlying store error on persistence failures.
func (s *ReportService) Submit(ctx context.Context, key *domain.ProjectKey, eventID string, form ReportForm) (*domain.UserReport, error) {
	if eventID == "" {
		return nil, ErrMissingEventID
	}
	form = form.Clean()
	if fe := ValidateForm(form); fe != nil {
		observability.ValidationFailures.Inc()
		return nil, &ValidationError{Fields: fe}
	}

	ctx, span := observability.StartSpan(ctx, "reports.submit",
		attribute.Int64("project_id", int64(key.ProjectID)),
		attribute.String("event_id", eventID),
	)
	defer span.End()

	r := &domain.UserReport{
		ProjectID:  key.ProjectID,
		EventID:    eventID,
		Name:       form.Name,
		Email:      form.Email,
		Comments:   form.Comments,
		Resolution: domain.ResolutionUnresolved,
	}
	if form.NotifyMe {
		r.Resolution = domain.ResolutionAwaitingResolution
	}

	g, err := s.Store.FindGroupByEvent(ctx, key.ProjectID, eventID)
	switch {
	case err == nil:
		r.GroupID = &g.ID
	case errors.Is(err, repo.ErrNotFound):
		// not ingested yet
	default:
		span.RecordError(err)
		return nil, err
	}

	if err := s.Store.CreateUserReport(ctx, r); err != nil {
		span.RecordError(err)
		return nil, err
	}

	linked := strconv.FormatBool(r.GroupID != nil)
	observability.ReportsSubmitted.WithLabelValues(r.Resolution.String(), linked).Inc()
	zerolog.Ctx(ctx).Info().
		Str("report_id", r.ID).
		Uint("project_id", r.ProjectID).
		Str("event_id", r.EventID).
		Str("resolution", r.Resolution.String()).
		Bool("linked", r.GroupID != nil).
		Msg("user report stored")
	return r, nil
}
