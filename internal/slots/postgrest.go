package slots

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/supabase-community/postgrest-go"

	"reelpool/internal/logging"
	"reelpool/internal/services"
)

// PostgrestConfig configures a PostgrestStore.
type PostgrestConfig struct {
	URL     string
	APIKey  string
	Schema  string
	Table   string
	Timeout time.Duration
}

// PostgrestStore reads and writes slot records through a Supabase PostgREST endpoint.
type PostgrestStore struct {
	baseURL   string
	schema    string
	headers   map[string]string
	transport http.RoundTripper
	table     string
	timeout   time.Duration
	logger    *slog.Logger
}

type slotRow struct {
	ID             string  `json:"id"`
	CampaignID     *string `json:"campaign_id"`
	Category       *string `json:"category"`
	Niche          *string `json:"niche"`
	ScheduledDate  *string `json:"scheduled_date"`
	VideoURL       *string `json:"video_url"`
	ExternalPostID *string `json:"external_post_id"`
}

var slotColumns = strings.Join([]string{
	ColumnID,
	ColumnCampaignID,
	ColumnCategory,
	ColumnNiche,
	ColumnScheduledDate,
	ColumnVideoURL,
	ColumnExternalPostID,
}, ",")

// NewPostgrestStore builds a store for the given endpoint. The URL is the
// PostgREST root (for Supabase, the project URL followed by /rest/v1).
func NewPostgrestStore(cfg PostgrestConfig, logger *slog.Logger) (*PostgrestStore, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" {
		return nil, services.Wrap(services.ErrValidation, "slots", "connect", "content store url is empty", nil)
	}
	table := strings.TrimSpace(cfg.Table)
	if table == "" {
		return nil, services.Wrap(services.ErrValidation, "slots", "connect", "content store table is empty", nil)
	}
	headers := map[string]string{}
	if key := strings.TrimSpace(cfg.APIKey); key != "" {
		headers["apikey"] = key
		headers["Authorization"] = "Bearer " + key
	}
	schema := strings.TrimSpace(cfg.Schema)
	if probe := postgrest.NewClient(base, schema, headers); probe.ClientError != nil {
		return nil, services.Wrap(services.ErrValidation, "slots", "connect", "invalid content store endpoint", probe.ClientError)
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = cfg.Timeout
	if logger == nil {
		logger = logging.NewNop()
	}
	return &PostgrestStore{
		baseURL:   base,
		schema:    schema,
		headers:   headers,
		transport: transport,
		table:     table,
		timeout:   cfg.Timeout,
		logger:    logger.With(logging.String(logging.FieldComponent, "content-store")),
	}, nil
}

// contextTransport binds every request of a client to one call's context, so
// a timed out or cancelled call also ends its HTTP request.
type contextTransport struct {
	ctx  context.Context
	next http.RoundTripper
}

func (t contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.next.RoundTrip(req.WithContext(t.ctx))
}

// client returns a postgrest client whose requests carry ctx. The library
// builds requests without a context, so one client is made per call.
func (s *PostgrestStore) client(ctx context.Context) *postgrest.Client {
	client := postgrest.NewClient(s.baseURL, s.schema, s.headers)
	client.Transport.Parent = contextTransport{ctx: ctx, next: s.transport}
	return client
}

// ListSlots returns every slot of a campaign ordered by scheduled date.
func (s *PostgrestStore) ListSlots(ctx context.Context, campaignID string) ([]Slot, error) {
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return nil, services.Wrap(services.ErrValidation, "slots", "list", "campaign id is required", nil)
	}
	var rows []slotRow
	err := s.do(ctx, "list", func(client *postgrest.Client) error {
		_, err := client.From(s.table).
			Select(slotColumns, "", false).
			Eq(ColumnCampaignID, campaignID).
			Order(ColumnScheduledDate, &postgrest.OrderOpts{Ascending: true, NullsFirst: false}).
			ExecuteTo(&rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	result := make([]Slot, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.slot())
	}
	s.logger.Debug("slots listed",
		logging.String("campaign_id", campaignID),
		logging.Int("count", len(result)),
	)
	return result, nil
}

// GetSlots returns the requested slots keyed by id.
func (s *PostgrestStore) GetSlots(ctx context.Context, ids []string) (map[string]Slot, error) {
	wanted := services.UniqueIDs(ids)
	result := make(map[string]Slot, len(wanted))
	if len(wanted) == 0 {
		return result, nil
	}
	var rows []slotRow
	err := s.do(ctx, "get", func(client *postgrest.Client) error {
		_, err := client.From(s.table).
			Select(slotColumns, "", false).
			In(ColumnID, wanted).
			ExecuteTo(&rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.ID] = row.slot()
	}
	return result, nil
}

// Apply writes validated field updates to one slot record.
func (s *PostgrestStore) Apply(ctx context.Context, slotID string, updates ...Update) error {
	slotID = strings.TrimSpace(slotID)
	if slotID == "" {
		return services.Wrap(services.ErrValidation, "slots", "apply", "slot id is required", nil)
	}
	fields, err := Fields(updates...)
	if err != nil {
		return err
	}
	var rows []slotRow
	err = s.do(ctx, "apply", func(client *postgrest.Client) error {
		_, err := client.From(s.table).
			Update(fields, "representation", "").
			Eq(ColumnID, slotID).
			ExecuteTo(&rows)
		return err
	})
	if err != nil {
		if errors.Is(err, services.ErrTimeout) || errors.Is(err, context.Canceled) {
			return err
		}
		return services.Wrap(services.ErrExternalWrite, "slots", "apply", "write slot "+slotID, err)
	}
	if len(rows) == 0 {
		return services.Wrap(services.ErrNotFound, "slots", "apply", "slot "+slotID+" not found", nil)
	}
	s.logger.Info("slot updated",
		logging.String(logging.FieldSlotID, slotID),
		logging.Int("fields", len(fields)),
	)
	return nil
}

// do runs one postgrest call bounded by ctx and the request timeout.
func (s *PostgrestStore) do(ctx context.Context, op string, call func(*postgrest.Client) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return contextError(op, err)
	}
	if err := call(s.client(ctx)); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return contextError(op, ctxErr)
		}
		return services.Wrap(services.ErrTransient, "slots", op, "content store request failed", err)
	}
	return nil
}

func contextError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, "slots", op, "content store request timed out", err)
	}
	return fmt.Errorf("slots %s: %w", op, err)
}

func (r slotRow) slot() Slot {
	return Slot{
		ID:             r.ID,
		CampaignID:     deref(r.CampaignID),
		Category:       deref(r.Category),
		Niche:          deref(r.Niche),
		ScheduledDate:  normalizeDate(deref(r.ScheduledDate)),
		VideoURL:       deref(r.VideoURL),
		ExternalPostID: deref(r.ExternalPostID),
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}

// normalizeDate keeps the date part of timestamp-typed columns.
func normalizeDate(value string) string {
	if len(value) > len("2006-01-02") && value[len("2006-01-02")] == 'T' {
		return value[:len("2006-01-02")]
	}
	return value
}
