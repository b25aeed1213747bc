package providers

import (
	"fmt"
	"time"
)

// llmCost prices chat completions by model tier, plus a surcharge when an
// image rides along.
func llmCost(_ map[string]string, payload map[string]any) int {
	cost := 1
	if model, ok := payload["model"].(string); ok {
		switch model {
		case "gpt-4", "gpt-4-turbo", "claude-3-opus":
			cost = 3
		case "gpt-4o", "claude-3-sonnet":
			cost = 2
		}
	}
	if _, ok := payload["image_url"]; ok {
		cost += 2
	}
	return cost
}

// ttsCost prices synthesis by voice tier.
func ttsCost(_ map[string]string, payload map[string]any) int {
	if voice, ok := payload["voice"].(string); ok && voice == "neural" {
		return 2
	}
	return 1
}

// qrFallbackAdapt rewrites a structured QR payload into the plain-text
// encoding the fallback provider accepts.
func qrFallbackAdapt(params map[string]string, payload map[string]any) (map[string]string, map[string]any) {
	out := map[string]string{"size": "300"}
	if size, ok := params["size"]; ok {
		out["size"] = size
	}
	text := ""
	if data, ok := payload["data"].(string); ok {
		text = data
	}
	if kind, ok := payload["kind"].(string); ok && kind == "wifi" {
		if ssid, ok := payload["ssid"].(string); ok {
			pass, _ := payload["password"].(string)
			text = fmt.Sprintf("WIFI:S:%s;T:WPA;P:%s;;", ssid, pass)
		}
	}
	out["text"] = text
	return out, nil
}

// catalog is the declarative provider registry. Handlers reduce to:
// parse input, select a key, call the dispatcher.
var catalog = []Spec{
	// --- social media ---
	{
		Key: "instagram-stats", AppID: "instagram-stats", Method: "GET",
		URL:   "https://instagram-statistics-api.p.rapidapi.com/community?url={profile_url}",
		Host:  "instagram-statistics-api.p.rapidapi.com",
		Shape: ShapeQuery, Family: FamilyJSON, Cost: 1,
	},
	{
		Key: "instagram-downloader", AppID: "instagram-downloader", Method: "GET",
		URL:   "https://instagram-media-downloader.p.rapidapi.com/media?url={post_url}",
		Host:  "instagram-media-downloader.p.rapidapi.com",
		Shape: ShapeQuery, Family: FamilyJSON, Cost: 1,
	},
	{
		Key: "tiktok-stats", AppID: "tiktok-stats", Method: "GET",
		URL:   "https://tiktok-scraper7.p.rapidapi.com/user/info?unique_id={username}",
		Host:  "tiktok-scraper7.p.rapidapi.com",
		Shape: ShapeQuery, Family: FamilyJSON, Cost: 1,
	},
	{
		Key: "youtube-stats", AppID: "youtube-stats", Method: "GET",
		URL:   "https://yt-api.p.rapidapi.com/channel/about?id={channel_id}",
		Host:  "yt-api.p.rapidapi.com",
		Shape: ShapeQuery, Family: FamilyJSON, Cost: 1,
	},
	{
		Key: "youtube-downloader", AppID: "youtube-downloader", Method: "GET",
		URL:   "https://yt-api.p.rapidapi.com/dl?id={video_id}",
		Host:  "yt-api.p.rapidapi.com",
		Shape: ShapeQuery, Family: FamilyJSON, Cost: 1,
	},
	{
		Key: "twitter-stats", AppID: "twitter-stats", Method: "GET",
		URL:   "https://twitter-api45.p.rapidapi.com/screenname.php?screenname={username}",
		Host:  "twitter-api45.p.rapidapi.com",
		Shape: ShapeQuery, Family: FamilyJSON, Cost: 1,
	},

	// --- seo / web intelligence ---
	{
		Key: "seo-analyzer", AppID: "seo-analyzer", Method: "GET",
		URL:   "https://seo-analyzer-api.p.rapidapi.com/analyze?url={url}",
		Host:  "seo-analyzer-api.p.rapidapi.com",
		Shape: ShapeQuery, Family: FamilyJSON, Cost: 2, Timeout: 45 * time.Second,
	},
	{
		Key: "seo-keywords", AppID: "seo-keywords", Method: "GET",
		URL:   "https://keyword-research-api.p.rapidapi.com/keywords?query={query}&country={country}",
		Host:  "keyword-research-api.p.rapidapi.com",
		Shape: ShapeQuery, Family: FamilyJSON, Cost: 1,
	},
	{
		Key: "seo-backlinks", AppID: "seo-backlinks", Method: "GET",
		URL:   "https://backlink-checker-api.p.rapidapi.com/backlinks?domain={domain}",
		Host:  "backlink-checker-api.p.rapidapi.com",
		Shape: ShapeQuery, Family: FamilyJSON, Cost: 2,
	},
	{
		Key: "domain-authority", AppID: "domain-authority", Method: "GET",
		URL:   "https://domain-da-pa-check.p.rapidapi.com/check?domain={domain}",
		Host:  "domain-da-pa-check.p.rapidapi.com",
		Shape: ShapeQuery, Family: FamilyJSON, Cost: 1,
	},
	{
		Key: "website-traffic", AppID: "website-traffic", Method: "GET",
		URL:   "https://similar-web.p.rapidapi.com/get-analysis?domain={domain}",
		Host:  "similar-web.p.rapidapi.com",
		Shape: ShapeQuery, Family: FamilyJSON, Cost: 2,
	},
	{
		Key: "pagespeed", AppID: "pagespeed", Method: "GET",
		URL:   "https://pagespeed-insights.p.rapidapi.com/run?url={url}&strategy={strategy}",
		Host:  "pagespeed-insights.p.rapidapi.com",
		Shape: ShapeQuery, Family: FamilyJSON, Cost: 2, Timeout: 60 * time.Second,
	},

	// --- network probes ---
	{
		Key: "whois", AppID: "whois-lookup", Method: "GET",
		URL:   "https://whois-lookup-api.p.rapidapi.com/whois?domain={domain}",
		Host:  "whois-lookup-api.p.rapidapi.com",
		Shape: ShapeQuery, Family: FamilyJSON, Cost: 1,
	},
	{
		Key: "ssl-checker", AppID: "ssl-checker", Method: "GET",
		URL:   "https://ssl-certificate-checker2.p.rapidapi.com/check?host={host}",
		Host:  "ssl-certificate-checker2.p.rapidapi.com",
		Shape: ShapeQuery, Family: FamilyJSON, Cost: 1,
	},
	{
		Key: "dns-lookup", AppID: "dns-lookup", Method: "GET",
		URL:   "https://dns-lookup-api.p.rapidapi.com/resolve?domain={domain}&type={record_type}",
		Host:  "dns-lookup-api.p.rapidapi.com",
		Shape: ShapeQuery, Family: FamilyJSON, Cost: 1,
	},
	{
		Key: "ip-geolocation", AppID: "ip-geolocation", Method: "GET",
		URL:   "https://ip-geo-location4.p.rapidapi.com/lookup?ip={ip}",
		Host:  "ip-geo-location4.p.rapidapi.com",
		Shape: ShapeQuery, Family: FamilyJSON, Cost: 1,
	},
	{
		Key: "email-validator", AppID: "email-validator", Method: "GET",
		URL:   "https://email-checker-validator.p.rapidapi.com/validate?email={email}",
		Host:  "email-checker-validator.p.rapidapi.com",
		Shape: ShapeQuery, Family: FamilyJSON, Cost: 1,
	},

	// --- converters ---
	{
		Key: "image-converter", AppID: "image-converter", Method: "POST",
		URL:   "https://image-converter9.p.rapidapi.com/convert?format={format}",
		Host:  "image-converter9.p.rapidapi.com",
		Shape: ShapeMultipart, Family: FamilyImage, Cost: 1, Timeout: 30 * time.Second,
	},
	{
		Key: "background-remover", AppID: "background-remover", Method: "POST",
		URL:   "https://background-removal4.p.rapidapi.com/v1/results",
		Host:  "background-removal4.p.rapidapi.com",
		Shape: ShapeMultipart, Family: FamilyImage, Cost: 2, Timeout: 45 * time.Second,
	},
	{
		Key: "image-upscaler", AppID: "image-upscaler", Method: "POST",
		URL:   "https://ai-image-upscaler1.p.rapidapi.com/upscale",
		Host:  "ai-image-upscaler1.p.rapidapi.com",
		Shape: ShapeJSON, Family: FamilyImage, Cost: 2, Timeout: 60 * time.Second,
	},
	{
		Key: "audio-converter", AppID: "audio-converter", Method: "POST",
		URL:   "https://audio-converter3.p.rapidapi.com/convert?format={format}",
		Host:  "audio-converter3.p.rapidapi.com",
		Shape: ShapeMultipart, Family: FamilyAudio, Cost: 1, Timeout: 90 * time.Second,
	},
	{
		Key: "website-screenshot", AppID: "website-screenshot", Method: "GET",
		URL:   "https://website-screenshot6.p.rapidapi.com/screenshot?url={url}&width={width}",
		Host:  "website-screenshot6.p.rapidapi.com",
		Shape: ShapeQuery, Family: FamilyImage, Cost: 1, Timeout: 30 * time.Second,
	},

	// --- ai / language ---
	{
		Key: "ai-chat", AppID: "ai-assistant", Method: "POST",
		URL:   "https://open-ai-gateway.p.rapidapi.com/v1/chat/completions",
		Host:  "open-ai-gateway.p.rapidapi.com",
		Shape: ShapeJSON, Family: FamilyJSON, CostFn: llmCost, Timeout: 60 * time.Second,
	},
	{
		Key: "ai-image-generator", AppID: "ai-image-generator", Method: "POST",
		URL:   "https://ai-image-generator14.p.rapidapi.com/generate",
		Host:  "ai-image-generator14.p.rapidapi.com",
		Shape: ShapeJSON, Family: FamilyImage, Cost: 3, Timeout: 90 * time.Second,
	},
	{
		Key: "text-to-speech", AppID: "text-to-speech", Method: "POST",
		URL:   "https://text-to-speech-neural.p.rapidapi.com/synthesize",
		Host:  "text-to-speech-neural.p.rapidapi.com",
		Shape: ShapeJSON, Family: FamilyAudio, CostFn: ttsCost, Timeout: 120 * time.Second,
	},
	{
		Key: "transcription", AppID: "transcription", Method: "POST",
		URL:   "https://speech-to-text-api3.p.rapidapi.com/transcribe",
		Host:  "speech-to-text-api3.p.rapidapi.com",
		Shape: ShapeMultipart, Family: FamilyJSON, Cost: 3, Timeout: 120 * time.Second,
	},
	{
		Key: "text-summarizer", AppID: "text-summarizer", Method: "POST",
		URL:   "https://text-summarizer-ai.p.rapidapi.com/summarize",
		Host:  "text-summarizer-ai.p.rapidapi.com",
		Shape: ShapeJSON, Family: FamilyJSON, Cost: 1,
	},
	{
		Key: "translator", AppID: "translator", Method: "POST",
		URL:   "https://deep-translate1.p.rapidapi.com/language/translate/v2",
		Host:  "deep-translate1.p.rapidapi.com",
		Shape: ShapeForm, Family: FamilyJSON, Cost: 1,
	},
	{
		Key: "grammar-checker", AppID: "grammar-checker", Method: "POST",
		URL:   "https://grammar-check-ai.p.rapidapi.com/check",
		Host:  "grammar-check-ai.p.rapidapi.com",
		Shape: ShapeJSON, Family: FamilyJSON, Cost: 1,
	},

	// --- generators ---
	{
		Key: "qr-generator", AppID: "qr-generator", Method: "POST",
		URL:   "https://qr-code-generator20.p.rapidapi.com/generate",
		Host:  "qr-code-generator20.p.rapidapi.com",
		Shape: ShapeJSON, Family: FamilySVG, Cost: 1,
		Fallback: &Fallback{Key: "qr-text", Adapt: qrFallbackAdapt},
	},
	{
		Key: "qr-text", AppID: "qr-generator", Method: "GET",
		URL:   "https://qr-code-api-free.p.rapidapi.com/qr?text={text}&size={size}",
		Host:  "qr-code-api-free.p.rapidapi.com",
		Shape: ShapeQuery, Family: FamilySVG, Cost: 1,
	},
	{
		Key: "barcode-generator", AppID: "barcode-generator", Method: "GET",
		URL:   "https://barcode-generator10.p.rapidapi.com/generate?data={data}&type={barcode_type}",
		Host:  "barcode-generator10.p.rapidapi.com",
		Shape: ShapeQuery, Family: FamilyImage, Cost: 1,
	},
	{
		Key: "currency-converter", AppID: "currency-converter", Method: "GET",
		URL:   "https://currency-conversion-and-exchange-rates.p.rapidapi.com/convert?from={from}&to={to}&amount={amount}",
		Host:  "currency-conversion-and-exchange-rates.p.rapidapi.com",
		Shape: ShapeQuery, Family: FamilyJSON, Cost: 1,
	},
}

// pathAppIDs maps route prefixes to catalog apps for usage attribution.
// System surfaces (auth, apps, credits, stats, notifications,
// version-info, health) are deliberately absent.
var pathAppIDs = map[string]string{
	"/instagram/stats":    "instagram-stats",
	"/instagram/download": "instagram-downloader",
	"/tiktok/":            "tiktok-stats",
	"/youtube/stats":      "youtube-stats",
	"/youtube/download":   "youtube-downloader",
	"/twitter/":           "twitter-stats",
	"/seo/analyze":        "seo-analyzer",
	"/seo/keywords":       "seo-keywords",
	"/seo/backlinks":      "seo-backlinks",
	"/seo/authority":      "domain-authority",
	"/seo/traffic":        "website-traffic",
	"/seo/pagespeed":      "pagespeed",
	"/net/whois":          "whois-lookup",
	"/net/ssl":            "ssl-checker",
	"/net/dns":            "dns-lookup",
	"/net/ip":             "ip-geolocation",
	"/net/email":          "email-validator",
	"/convert/image":      "image-converter",
	"/convert/background": "background-remover",
	"/convert/upscale":    "image-upscaler",
	"/convert/audio":      "audio-converter",
	"/convert/screenshot": "website-screenshot",
	"/ai/chat":            "ai-assistant",
	"/ai/image":           "ai-image-generator",
	"/ai/tts":             "text-to-speech",
	"/ai/transcribe":      "transcription",
	"/ai/summarize":       "text-summarizer",
	"/ai/translate":       "translator",
	"/ai/grammar":         "grammar-checker",
	"/generate/qr":        "qr-generator",
	"/generate/barcode":   "barcode-generator",
	"/tools/currency":     "currency-converter",
}
