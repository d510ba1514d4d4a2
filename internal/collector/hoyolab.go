package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"StaminaSentinel/internal/model"
)

// DefaultHoyolabBaseURL is the overseas HoYoLAB battle-chronicle API.
const DefaultHoyolabBaseURL = "https://bbs-api-os.hoyolab.com"

var hoyolabNotePaths = map[string]string{
	"genshin":  "/game_record/app/genshin/api/dailyNote",
	"starrail": "/game_record/app/hkrpg/api/note",
	"zzz":      "/game_record/app/zzz/api/note",
}

// HoyolabFetcher polls the daily-note endpoint of one HoYoverse game
// (genshin, starrail, zzz) using cookie credentials.
type HoyolabFetcher struct {
	Game    string
	BaseURL string
	UID     string
	Region  string
	Cookie  string
	Client  *http.Client
}

// NewHoyolabFetcher creates a fetcher with optional proxy support.
func NewHoyolabFetcher(game, baseURL, uid, region, cookie, proxyURL string) *HoyolabFetcher {
	if baseURL == "" {
		baseURL = DefaultHoyolabBaseURL
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HoyolabFetcher{
		Game:    game,
		BaseURL: baseURL,
		UID:     uid,
		Region:  region,
		Cookie:  cookie,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *HoyolabFetcher) GameID() string { return f.Game }
func (f *HoyolabFetcher) Name() string   { return "hoyolab" }

// hoyolabEnvelope is the retcode wrapper around every HoYoLAB response.
type hoyolabEnvelope struct {
	Retcode int             `json:"retcode"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Fetch requests the daily note and decodes it into snapshots.
func (f *HoyolabFetcher) Fetch(ctx context.Context) ([]model.ResourceSnapshot, error) {
	path, ok := hoyolabNotePaths[f.Game]
	if !ok {
		return nil, fmt.Errorf("hoyolab: unsupported game %q", f.Game)
	}
	endpoint := fmt.Sprintf("%s%s?role_id=%s&server=%s", f.BaseURL, path, f.UID, f.Region)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cookie", f.Cookie)
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch daily note: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch daily note: status %d", resp.StatusCode)
	}

	var env hoyolabEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode daily note: %w", err)
	}
	if env.Retcode != 0 {
		return nil, fmt.Errorf("hoyolab retcode %d: %s", env.Retcode, env.Message)
	}

	now := time.Now()
	switch f.Game {
	case "genshin":
		return decodeGenshinNote(env.Data, now)
	case "starrail":
		return decodeStarrailNote(env.Data, now)
	default:
		return decodeZZZNote(env.Data, now)
	}
}

// flexSeconds decodes a duration that the API serves either as a JSON number
// or as a numeric string, depending on the game. Unparseable values decode to
// -1 so callers can fail safe.
type flexSeconds int64

func (s *flexSeconds) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*s = flexSeconds(n)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if n, err := strconv.ParseInt(str, 10, 64); err == nil {
			*s = flexSeconds(n)
			return nil
		}
	}
	*s = -1
	return nil
}

// after converts a relative recovery duration into an absolute instant.
// Negative (malformed) durations yield the zero time, which projection treats
// as already complete.
func (s flexSeconds) after(now time.Time) time.Time {
	if s < 0 {
		return time.Time{}
	}
	return now.Add(time.Duration(s) * time.Second)
}

type genshinNote struct {
	CurrentResin         int         `json:"current_resin"`
	MaxResin             int         `json:"max_resin"`
	ResinRecoveryTime    flexSeconds `json:"resin_recovery_time"`
	CurrentHomeCoin      int         `json:"current_home_coin"`
	MaxHomeCoin          int         `json:"max_home_coin"`
	HomeCoinRecoveryTime flexSeconds `json:"home_coin_recovery_time"`
	CurrentExpeditionNum int         `json:"current_expedition_num"`
	MaxExpeditionNum     int         `json:"max_expedition_num"`
	Expeditions          []struct {
		Status       string      `json:"status"`
		RemainedTime flexSeconds `json:"remained_time"`
	} `json:"expeditions"`
	Transformer struct {
		Obtained     bool `json:"obtained"`
		RecoveryTime struct {
			Day     int  `json:"Day"`
			Hour    int  `json:"Hour"`
			Minute  int  `json:"Minute"`
			Second  int  `json:"Second"`
			Reached bool `json:"reached"`
		} `json:"recovery_time"`
	} `json:"transformer"`
}

func decodeGenshinNote(data []byte, now time.Time) ([]model.ResourceSnapshot, error) {
	var note genshinNote
	if err := json.Unmarshal(data, &note); err != nil {
		return nil, fmt.Errorf("decode genshin note: %w", err)
	}

	snaps := []model.ResourceSnapshot{
		{
			GameID:           "genshin",
			Type:             "resin",
			Kind:             model.KindStamina,
			Current:          note.CurrentResin,
			Max:              note.MaxResin,
			FullAt:           note.ResinRecoveryTime.after(now),
			RegenRateSeconds: 480,
			FetchedAt:        now,
		},
		{
			GameID:           "genshin",
			Type:             "realm_currency",
			Kind:             model.KindStamina,
			Current:          note.CurrentHomeCoin,
			Max:              note.MaxHomeCoin,
			FullAt:           note.HomeCoinRecoveryTime.after(now),
			FetchedAt:        now,
		},
	}

	// Earliest expedition return across ongoing dispatches.
	var earliest time.Time
	for _, exp := range note.Expeditions {
		if exp.Status != "Ongoing" {
			continue
		}
		finish := exp.RemainedTime.after(now)
		if finish.IsZero() {
			continue
		}
		if earliest.IsZero() || finish.Before(earliest) {
			earliest = finish
		}
	}
	snaps = append(snaps, model.ResourceSnapshot{
		GameID:             "genshin",
		Type:               "expedition",
		Kind:               model.KindExpedition,
		CurrentExpeditions: note.CurrentExpeditionNum,
		MaxExpeditions:     note.MaxExpeditionNum,
		EarliestFinishAt:   earliest,
		FetchedAt:          now,
	})

	if note.Transformer.Obtained {
		rec := note.Transformer.RecoveryTime
		remaining := time.Duration(rec.Day)*24*time.Hour +
			time.Duration(rec.Hour)*time.Hour +
			time.Duration(rec.Minute)*time.Minute +
			time.Duration(rec.Second)*time.Second
		snap := model.ResourceSnapshot{
			GameID:    "genshin",
			Type:      "parametric_transformer",
			Kind:      model.KindCooldown,
			IsReady:   rec.Reached,
			FetchedAt: now,
		}
		if !rec.Reached && remaining > 0 {
			snap.ReadyAt = now.Add(remaining)
		}
		snaps = append(snaps, snap)
	}

	return snaps, nil
}

type starrailNote struct {
	CurrentStamina        int         `json:"current_stamina"`
	MaxStamina            int         `json:"max_stamina"`
	StaminaRecoverTime    flexSeconds `json:"stamina_recover_time"`
	AcceptedExpeditionNum int         `json:"accepted_expedition_num"`
	TotalExpeditionNum    int         `json:"total_expedition_num"`
	Expeditions           []struct {
		Status        string      `json:"status"`
		RemainingTime flexSeconds `json:"remaining_time"`
	} `json:"expeditions"`
}

func decodeStarrailNote(data []byte, now time.Time) ([]model.ResourceSnapshot, error) {
	var note starrailNote
	if err := json.Unmarshal(data, &note); err != nil {
		return nil, fmt.Errorf("decode starrail note: %w", err)
	}

	var earliest time.Time
	for _, exp := range note.Expeditions {
		if exp.Status != "Ongoing" {
			continue
		}
		finish := exp.RemainingTime.after(now)
		if finish.IsZero() {
			continue
		}
		if earliest.IsZero() || finish.Before(earliest) {
			earliest = finish
		}
	}

	return []model.ResourceSnapshot{
		{
			GameID:           "starrail",
			Type:             "trailblaze_power",
			Kind:             model.KindStamina,
			Current:          note.CurrentStamina,
			Max:              note.MaxStamina,
			FullAt:           note.StaminaRecoverTime.after(now),
			RegenRateSeconds: 360,
			FetchedAt:        now,
		},
		{
			GameID:             "starrail",
			Type:               "assignment",
			Kind:               model.KindExpedition,
			CurrentExpeditions: note.AcceptedExpeditionNum,
			MaxExpeditions:     note.TotalExpeditionNum,
			EarliestFinishAt:   earliest,
			FetchedAt:          now,
		},
	}, nil
}

type zzzNote struct {
	Energy struct {
		Progress struct {
			Current int `json:"current"`
			Max     int `json:"max"`
		} `json:"progress"`
		Restore flexSeconds `json:"restore"`
	} `json:"energy"`
}

func decodeZZZNote(data []byte, now time.Time) ([]model.ResourceSnapshot, error) {
	var note zzzNote
	if err := json.Unmarshal(data, &note); err != nil {
		return nil, fmt.Errorf("decode zzz note: %w", err)
	}

	return []model.ResourceSnapshot{
		{
			GameID:           "zzz",
			Type:             "battery",
			Kind:             model.KindStamina,
			Current:          note.Energy.Progress.Current,
			Max:              note.Energy.Progress.Max,
			FullAt:           note.Energy.Restore.after(now),
			RegenRateSeconds: 360,
			FetchedAt:        now,
		},
	}, nil
}
