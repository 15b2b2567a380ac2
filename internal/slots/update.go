package slots

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"reelpool/internal/services"
)

// Column names in the content-planning store.
const (
	ColumnID             = "id"
	ColumnCampaignID     = "campaign_id"
	ColumnCategory       = "category"
	ColumnNiche          = "niche"
	ColumnScheduledDate  = "scheduled_date"
	ColumnVideoURL       = "video_url"
	ColumnExternalPostID = "external_post_id"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Update is one field write to a slot record. The set of implementations is
// closed: VideoURL, PostID and ScheduledDate.
type Update interface {
	Column() string
	Value() any
	isUpdate()
}

// VideoURL sets the slot's rendered video URL.
type VideoURL struct {
	URL string `validate:"required,http_url"`
}

// PostID sets the downstream post identifier.
type PostID struct {
	ID string `validate:"required,max=256"`
}

// ScheduledDate moves the slot to another day.
type ScheduledDate struct {
	Date string `validate:"required,datetime=2006-01-02"`
}

func (u VideoURL) Column() string      { return ColumnVideoURL }
func (u PostID) Column() string        { return ColumnExternalPostID }
func (u ScheduledDate) Column() string { return ColumnScheduledDate }

func (u VideoURL) Value() any      { return strings.TrimSpace(u.URL) }
func (u PostID) Value() any        { return strings.TrimSpace(u.ID) }
func (u ScheduledDate) Value() any { return strings.TrimSpace(u.Date) }

func (VideoURL) isUpdate()      {}
func (PostID) isUpdate()        {}
func (ScheduledDate) isUpdate() {}

// Fields validates updates and merges them into a column/value map ready to
// send. A column may appear only once per call.
func Fields(updates ...Update) (map[string]any, error) {
	if len(updates) == 0 {
		return nil, services.Wrap(services.ErrValidation, "slots", "apply", "no updates given", nil)
	}
	fields := make(map[string]any, len(updates))
	for _, update := range updates {
		if update == nil {
			return nil, services.Wrap(services.ErrValidation, "slots", "apply", "nil update", nil)
		}
		if err := validate.Struct(update); err != nil {
			return nil, services.Wrap(services.ErrValidation, "slots", "apply", fmt.Sprintf("invalid %s", update.Column()), err)
		}
		if _, dup := fields[update.Column()]; dup {
			return nil, services.Wrap(services.ErrValidation, "slots", "apply", "duplicate update for "+update.Column(), nil)
		}
		fields[update.Column()] = update.Value()
	}
	return fields, nil
}

// ValidURL reports whether value is an absolute http(s) URL.
func ValidURL(value string) bool {
	return validate.Var(strings.TrimSpace(value), "required,http_url") == nil
}
