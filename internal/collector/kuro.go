package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"StaminaSentinel/internal/model"
)

// DefaultKuroBaseURL is the Kuro Games companion API.
const DefaultKuroBaseURL = "https://api.kurobbs.com"

// KuroFetcher polls waveplate data for Wuthering Waves using a bearer token.
type KuroFetcher struct {
	BaseURL string
	RoleID  string
	Server  string
	Token   string
	Client  *http.Client
}

// NewKuroFetcher creates a fetcher with optional proxy support.
func NewKuroFetcher(baseURL, roleID, server, token, proxyURL string) *KuroFetcher {
	if baseURL == "" {
		baseURL = DefaultKuroBaseURL
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &KuroFetcher{
		BaseURL: baseURL,
		RoleID:  roleID,
		Server:  server,
		Token:   token,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *KuroFetcher) GameID() string { return "wuwa" }
func (f *KuroFetcher) Name() string   { return "kuro" }

type kuroEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"msg"`
	Data    json.RawMessage `json:"data"`
}

type kuroEnergy struct {
	Energy struct {
		Cur              int   `json:"cur"`
		Total            int   `json:"total"`
		RefreshTimeStamp int64 `json:"refreshTimeStamp"` // unix seconds, 0 when full
	} `json:"energyData"`
}

// Fetch requests the role energy data and decodes it into a waveplate
// snapshot.
func (f *KuroFetcher) Fetch(ctx context.Context) ([]model.ResourceSnapshot, error) {
	endpoint := f.BaseURL + "/aki/roleBox/akiBox/baseData"
	form := url.Values{"roleId": {f.RoleID}, "serverId": {f.Server}}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Token", f.Token)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch waveplate data: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch waveplate data: status %d", resp.StatusCode)
	}

	var env kuroEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode waveplate data: %w", err)
	}
	if env.Code != 200 {
		return nil, fmt.Errorf("kuro code %d: %s", env.Code, env.Message)
	}

	var data kuroEnergy
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("decode energy data: %w", err)
	}

	now := time.Now()
	snap := model.ResourceSnapshot{
		GameID:           "wuwa",
		Type:             "waveplate",
		Kind:             model.KindStamina,
		Current:          data.Energy.Cur,
		Max:              data.Energy.Total,
		RegenRateSeconds: 360,
		FetchedAt:        now,
	}
	if ts := data.Energy.RefreshTimeStamp; ts > 0 {
		snap.FullAt = time.Unix(ts, 0)
	}
	return []model.ResourceSnapshot{snap}, nil
}
