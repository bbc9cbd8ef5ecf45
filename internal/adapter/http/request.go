package httpadapter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"adpipe/internal/core/domain"
	"adpipe/internal/core/port"
)

// adRequestBody is the wire shape of an ad request. Groups are optional;
// missing attributes simply widen targeting (fail-open matching).
type adRequestBody struct {
	SlotID string `json:"slot_id"`
	NumAds int    `json:"num_ads"`
	UserID string `json:"user_id"`
	User   *struct {
		Age           *int     `json:"age"`
		Gender        string   `json:"gender"`
		Interests     []string `json:"interests"`
		AppCategories []string `json:"app_categories"`
	} `json:"user"`
	Device *struct {
		Model string `json:"model"`
		OS    string `json:"os"`
	} `json:"device"`
	Geo *struct {
		Country string `json:"country"`
		City    string `json:"city"`
	} `json:"geo"`
	Context *struct {
		PageURL string `json:"page_url"`
	} `json:"context"`
}

type trackingURLs struct {
	ImpressionURL string `json:"impression_url"`
	ClickURL      string `json:"click_url"`
	ConversionURL string `json:"conversion_url"`
}

type creativeResponse struct {
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
	VideoURL     string `json:"video_url,omitempty"`
	LandingURL   string `json:"landing_url"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	CreativeType string `json:"creative_type"`
}

type adResponse struct {
	AdID       string           `json:"ad_id"`
	CampaignID int64            `json:"campaign_id"`
	CreativeID int64            `json:"creative_id"`
	Creative   creativeResponse `json:"creative"`
	Tracking   trackingURLs     `json:"tracking"`
}

type adListResponse struct {
	RequestID string       `json:"request_id"`
	Ads       []adResponse `json:"ads"`
	Count     int          `json:"count"`
}

// handleAdRequest is the main serving endpoint: it runs the decision
// pipeline and answers with the selected ads and their tracking URLs. No
// fill is a normal 200 response with an empty list.
func (h *Handler) handleAdRequest(w http.ResponseWriter, r *http.Request) {
	var body adRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if body.SlotID == "" {
		http.Error(w, "missing slot_id", http.StatusBadRequest)
		return
	}

	user := h.userContext(r, body)
	requestID := uuid.NewString()

	decisions, err := h.ads.ServeAds(r.Context(), port.AdRequest{
		RequestID: requestID,
		SlotID:    body.SlotID,
		NumAds:    body.NumAds,
		User:      user,
	})
	if err != nil {
		h.logger.Error("ad request error",
			slog.String("request_id", requestID), slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	baseURL := requestBaseURL(r)
	resp := adListResponse{RequestID: requestID, Ads: make([]adResponse, 0, len(decisions))}
	for _, d := range decisions {
		resp.Ads = append(resp.Ads, adResponse{
			AdID:       d.AdID,
			CampaignID: d.CampaignID,
			CreativeID: d.CreativeID,
			Creative: creativeResponse{
				Title:        d.Creative.Title,
				Description:  d.Creative.Description,
				ImageURL:     d.Creative.ImageURL,
				VideoURL:     d.Creative.VideoURL,
				LandingURL:   d.Creative.LandingURL,
				Width:        d.Creative.Width,
				Height:       d.Creative.Height,
				CreativeType: string(d.Creative.Type),
			},
			Tracking: trackingURLs{
				ImpressionURL: pixelURL(baseURL, "v", requestID, d.AdID),
				ClickURL:      pixelURL(baseURL, "c", requestID, d.AdID),
				ConversionURL: pixelURL(baseURL, "x", requestID, d.AdID),
			},
		})
	}
	resp.Count = len(resp.Ads)

	writeJSON(w, h.logger, resp)
}

// userContext assembles the per-request user snapshot, falling back to the
// Referer header for the page URL when enabled and no explicit URL came in.
func (h *Handler) userContext(r *http.Request, body adRequestBody) domain.UserContext {
	user := domain.UserContext{UserID: body.UserID}
	if body.User != nil {
		user.Age = body.User.Age
		user.Gender = body.User.Gender
		user.Interests = body.User.Interests
		user.AppCategories = body.User.AppCategories
	}
	if body.Device != nil {
		user.DeviceModel = body.Device.Model
		user.OS = body.Device.OS
	}
	if body.Geo != nil {
		user.Country = body.Geo.Country
		user.City = body.Geo.City
	}
	if body.Context != nil {
		user.PageURL = body.Context.PageURL
	}
	if user.PageURL == "" && h.useReferer {
		user.PageURL = refererURL(r)
	}
	return user
}

// refererURL validates the Referer header as an absolute http(s) URL.
func refererURL(r *http.Request) string {
	referer := r.Header.Get("Referer")
	if referer == "" {
		return ""
	}
	parsed, err := url.Parse(referer)
	if err != nil || parsed.Host == "" {
		return ""
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	return referer
}

// requestBaseURL reconstructs the externally visible base URL, honoring
// X-Forwarded-Proto behind a reverse proxy.
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := strings.ToLower(r.Header.Get("X-Forwarded-Proto")); proto == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

func pixelURL(baseURL, eventCode, requestID, adID string) string {
	return fmt.Sprintf("%s/api/v1/px/?t=%s&r=%s&i=%s", baseURL, eventCode, requestID, adID)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response error", slog.Any("error", err))
	}
}
