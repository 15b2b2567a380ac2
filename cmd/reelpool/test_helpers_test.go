package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"reelpool/internal/config"
	"reelpool/internal/pool"
	"reelpool/internal/testsupport"
)

type fakeSlot struct {
	ID             string  `json:"id"`
	CampaignID     string  `json:"campaign_id"`
	Category       string  `json:"category"`
	Niche          string  `json:"niche"`
	ScheduledDate  string  `json:"scheduled_date"`
	VideoURL       *string `json:"video_url"`
	ExternalPostID *string `json:"external_post_id"`
}

// contentServer is a minimal PostgREST stand-in serving one slot table.
type contentServer struct {
	mu    sync.Mutex
	slots map[string]*fakeSlot
}

func newContentServer(t *testing.T, slots ...fakeSlot) (*contentServer, *httptest.Server) {
	t.Helper()
	cs := &contentServer{slots: make(map[string]*fakeSlot, len(slots))}
	for i := range slots {
		slot := slots[i]
		cs.slots[slot.ID] = &slot
	}
	server := httptest.NewServer(http.HandlerFunc(cs.serve))
	t.Cleanup(server.Close)
	return cs, server
}

func (cs *contentServer) videoURL(id string) string {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	slot, ok := cs.slots[id]
	if !ok || slot.VideoURL == nil {
		return ""
	}
	return *slot.VideoURL
}

func (cs *contentServer) serve(w http.ResponseWriter, r *http.Request) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	query := r.URL.Query()
	matched := make([]*fakeSlot, 0, len(cs.slots))
	for _, slot := range cs.slots {
		if filter := query.Get("campaign_id"); filter != "" && "eq."+slot.CampaignID != filter {
			continue
		}
		if filter := query.Get("id"); filter != "" && !matchID(filter, slot.ID) {
			continue
		}
		matched = append(matched, slot)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].ScheduledDate != matched[j].ScheduledDate {
			return matched[i].ScheduledDate < matched[j].ScheduledDate
		}
		return matched[i].ID < matched[j].ID
	})

	if r.Method == http.MethodPatch {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for _, slot := range matched {
			if v, ok := body["video_url"].(string); ok {
				slot.VideoURL = &v
			}
			if v, ok := body["external_post_id"].(string); ok {
				slot.ExternalPostID = &v
			}
			if v, ok := body["scheduled_date"].(string); ok {
				slot.ScheduledDate = v
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(matched)
}

func matchID(filter, id string) bool {
	if rest, ok := strings.CutPrefix(filter, "eq."); ok {
		return rest == id
	}
	rest, ok := strings.CutPrefix(filter, "in.(")
	if !ok {
		return false
	}
	for _, candidate := range strings.Split(strings.TrimSuffix(rest, ")"), ",") {
		if strings.Trim(candidate, `"`) == id {
			return true
		}
	}
	return false
}

type cliTestEnv struct {
	cfg        *config.Config
	store      *pool.Store
	content    *contentServer
	configPath string
}

func setupCLITestEnv(t *testing.T, slots ...fakeSlot) *cliTestEnv {
	t.Helper()

	content, server := newContentServer(t, slots...)
	cfg := testsupport.NewConfig(t, testsupport.WithContentStore(server.URL, "test-key"))

	homeDir := filepath.Join(testsupport.BaseDir(cfg), "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	configPath := filepath.Join(homeDir, ".config", "reelpool", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		store:      testsupport.MustOpenStore(t, cfg),
		content:    content,
		configPath: configPath,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
