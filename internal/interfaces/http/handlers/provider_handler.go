package handlers

import (
	"io"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/apperrors"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/pipeline"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/providers"
)

// maxUploadBytes bounds multipart uploads forwarded to converters.
const maxUploadBytes = 25 << 20

// ProviderHandler hosts every provider route. Each method is the same
// three lines of intent: parse a small typed payload, pick a registry
// key, hand the rest to the pipeline.
type ProviderHandler struct {
	pipe   *pipeline.Pipeline
	logger *slog.Logger
}

func NewProviderHandler(pipe *pipeline.Pipeline, logger *slog.Logger) *ProviderHandler {
	return &ProviderHandler{pipe: pipe, logger: logger}
}

func (h *ProviderHandler) badRequest(c *gin.Context, msg string) {
	pipeline.RespondError(c, apperrors.Validation(msg), h.logger)
}

// readUpload pulls the multipart file for converter endpoints.
func (h *ProviderHandler) readUpload(c *gin.Context, field string) (*providers.File, bool) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		h.badRequest(c, "file upload is required")
		return nil, false
	}
	if fileHeader.Size > maxUploadBytes {
		h.badRequest(c, "file exceeds the 25MB upload limit")
		return nil, false
	}

	f, err := fileHeader.Open()
	if err != nil {
		pipeline.RespondError(c, apperrors.Internal(err), h.logger)
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		pipeline.RespondError(c, apperrors.Internal(err), h.logger)
		return nil, false
	}

	return &providers.File{
		FieldName:   field,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, true
}

// --- social media ---

func (h *ProviderHandler) InstagramStats(c *gin.Context) {
	profileURL := c.Query("profile_url")
	if profileURL == "" {
		h.badRequest(c, "profile_url is required")
		return
	}
	h.pipe.Execute(c, "instagram-stats", map[string]string{"profile_url": profileURL}, nil, nil)
}

func (h *ProviderHandler) InstagramDownload(c *gin.Context) {
	postURL := c.Query("post_url")
	if postURL == "" {
		h.badRequest(c, "post_url is required")
		return
	}
	h.pipe.Execute(c, "instagram-downloader", map[string]string{"post_url": postURL}, nil, nil)
}

func (h *ProviderHandler) TikTokStats(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		h.badRequest(c, "username is required")
		return
	}
	h.pipe.Execute(c, "tiktok-stats", map[string]string{"username": username}, nil, nil)
}

func (h *ProviderHandler) YouTubeStats(c *gin.Context) {
	channelID := c.Query("channel_id")
	if channelID == "" {
		h.badRequest(c, "channel_id is required")
		return
	}
	h.pipe.Execute(c, "youtube-stats", map[string]string{"channel_id": channelID}, nil, nil)
}

func (h *ProviderHandler) YouTubeDownload(c *gin.Context) {
	videoID := c.Query("video_id")
	if videoID == "" {
		h.badRequest(c, "video_id is required")
		return
	}
	h.pipe.Execute(c, "youtube-downloader", map[string]string{"video_id": videoID}, nil, nil)
}

func (h *ProviderHandler) TwitterStats(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		h.badRequest(c, "username is required")
		return
	}
	h.pipe.Execute(c, "twitter-stats", map[string]string{"username": username}, nil, nil)
}

// --- seo ---

func (h *ProviderHandler) SEOAnalyze(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		h.badRequest(c, "url is required")
		return
	}
	h.pipe.Execute(c, "seo-analyzer", map[string]string{"url": url}, nil, nil)
}

func (h *ProviderHandler) SEOKeywords(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		h.badRequest(c, "query is required")
		return
	}
	country := c.DefaultQuery("country", "us")
	h.pipe.Execute(c, "seo-keywords", map[string]string{"query": query, "country": country}, nil, nil)
}

func (h *ProviderHandler) SEOBacklinks(c *gin.Context) {
	domain := c.Query("domain")
	if domain == "" {
		h.badRequest(c, "domain is required")
		return
	}
	h.pipe.Execute(c, "seo-backlinks", map[string]string{"domain": domain}, nil, nil)
}

func (h *ProviderHandler) DomainAuthority(c *gin.Context) {
	domain := c.Query("domain")
	if domain == "" {
		h.badRequest(c, "domain is required")
		return
	}
	h.pipe.Execute(c, "domain-authority", map[string]string{"domain": domain}, nil, nil)
}

func (h *ProviderHandler) WebsiteTraffic(c *gin.Context) {
	domain := c.Query("domain")
	if domain == "" {
		h.badRequest(c, "domain is required")
		return
	}
	h.pipe.Execute(c, "website-traffic", map[string]string{"domain": domain}, nil, nil)
}

func (h *ProviderHandler) PageSpeed(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		h.badRequest(c, "url is required")
		return
	}
	strategy := c.DefaultQuery("strategy", "desktop")
	h.pipe.Execute(c, "pagespeed", map[string]string{"url": url, "strategy": strategy}, nil, nil)
}

// --- network probes ---

func (h *ProviderHandler) Whois(c *gin.Context) {
	domain := c.Query("domain")
	if domain == "" {
		h.badRequest(c, "domain is required")
		return
	}
	h.pipe.Execute(c, "whois", map[string]string{"domain": domain}, nil, nil)
}

func (h *ProviderHandler) SSLCheck(c *gin.Context) {
	host := c.Query("host")
	if host == "" {
		h.badRequest(c, "host is required")
		return
	}
	h.pipe.Execute(c, "ssl-checker", map[string]string{"host": host}, nil, nil)
}

func (h *ProviderHandler) DNSLookup(c *gin.Context) {
	domain := c.Query("domain")
	if domain == "" {
		h.badRequest(c, "domain is required")
		return
	}
	recordType := c.DefaultQuery("type", "A")
	h.pipe.Execute(c, "dns-lookup", map[string]string{"domain": domain, "record_type": recordType}, nil, nil)
}

func (h *ProviderHandler) IPGeolocation(c *gin.Context) {
	ip := c.Query("ip")
	if ip == "" {
		h.badRequest(c, "ip is required")
		return
	}
	h.pipe.Execute(c, "ip-geolocation", map[string]string{"ip": ip}, nil, nil)
}

func (h *ProviderHandler) EmailValidate(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		h.badRequest(c, "email is required")
		return
	}
	h.pipe.Execute(c, "email-validator", map[string]string{"email": email}, nil, nil)
}

// --- converters ---

func (h *ProviderHandler) ImageConvert(c *gin.Context) {
	format := c.DefaultQuery("format", "png")
	file, ok := h.readUpload(c, "file")
	if !ok {
		return
	}
	h.pipe.Execute(c, "image-converter", map[string]string{"format": format}, nil, file)
}

func (h *ProviderHandler) BackgroundRemove(c *gin.Context) {
	file, ok := h.readUpload(c, "image_file")
	if !ok {
		return
	}
	h.pipe.Execute(c, "background-remover", nil, nil, file)
}

func (h *ProviderHandler) ImageUpscale(c *gin.Context) {
	var req struct {
		ImageURL string `json:"image_url" binding:"required"`
		Scale    int    `json:"scale"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "image_url is required")
		return
	}
	if req.Scale == 0 {
		req.Scale = 2
	}
	h.pipe.Execute(c, "image-upscaler", nil, map[string]any{
		"image_url": req.ImageURL,
		"scale":     req.Scale,
	}, nil)
}

func (h *ProviderHandler) AudioConvert(c *gin.Context) {
	format := c.DefaultQuery("format", "mp3")
	file, ok := h.readUpload(c, "file")
	if !ok {
		return
	}
	h.pipe.Execute(c, "audio-converter", map[string]string{"format": format}, nil, file)
}

func (h *ProviderHandler) WebsiteScreenshot(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		h.badRequest(c, "url is required")
		return
	}
	width := c.DefaultQuery("width", "1280")
	h.pipe.Execute(c, "website-screenshot", map[string]string{"url": url, "width": width}, nil, nil)
}

// --- ai / language ---

func (h *ProviderHandler) AIChat(c *gin.Context) {
	var req struct {
		Prompt   string `json:"prompt" binding:"required"`
		Model    string `json:"model"`
		ImageURL string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "prompt is required")
		return
	}
	if req.Model == "" {
		req.Model = "gpt-4o"
	}

	payload := map[string]any{
		"model":    req.Model,
		"messages": []map[string]string{{"role": "user", "content": req.Prompt}},
	}
	if req.ImageURL != "" {
		payload["image_url"] = req.ImageURL
	}
	h.pipe.Execute(c, "ai-chat", nil, payload, nil)
}

func (h *ProviderHandler) AIImage(c *gin.Context) {
	var req struct {
		Prompt string `json:"prompt" binding:"required"`
		Style  string `json:"style"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "prompt is required")
		return
	}
	h.pipe.Execute(c, "ai-image-generator", nil, map[string]any{
		"prompt": req.Prompt,
		"style":  req.Style,
	}, nil)
}

func (h *ProviderHandler) TextToSpeech(c *gin.Context) {
	var req struct {
		Text  string `json:"text" binding:"required"`
		Voice string `json:"voice"`
		Lang  string `json:"lang"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "text is required")
		return
	}
	if req.Voice == "" {
		req.Voice = "standard"
	}
	h.pipe.Execute(c, "text-to-speech", nil, map[string]any{
		"text":  req.Text,
		"voice": req.Voice,
		"lang":  req.Lang,
	}, nil)
}

func (h *ProviderHandler) Transcribe(c *gin.Context) {
	file, ok := h.readUpload(c, "audio_file")
	if !ok {
		return
	}
	lang := c.DefaultPostForm("lang", "en")
	h.pipe.Execute(c, "transcription", nil, map[string]any{"lang": lang}, file)
}

func (h *ProviderHandler) Summarize(c *gin.Context) {
	var req struct {
		Text      string `json:"text" binding:"required"`
		Sentences int    `json:"sentences"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "text is required")
		return
	}
	if req.Sentences == 0 {
		req.Sentences = 3
	}
	h.pipe.Execute(c, "text-summarizer", nil, map[string]any{
		"text":      req.Text,
		"sentences": req.Sentences,
	}, nil)
}

func (h *ProviderHandler) Translate(c *gin.Context) {
	var req struct {
		Text   string `json:"text" binding:"required"`
		Source string `json:"source"`
		Target string `json:"target" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "text and target are required")
		return
	}
	h.pipe.Execute(c, "translator", nil, map[string]any{
		"q":      req.Text,
		"source": req.Source,
		"target": req.Target,
	}, nil)
}

func (h *ProviderHandler) GrammarCheck(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
		Lang string `json:"lang"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "text is required")
		return
	}
	h.pipe.Execute(c, "grammar-checker", nil, map[string]any{
		"text": req.Text,
		"lang": req.Lang,
	}, nil)
}

// --- generators ---

// QRGenerate accepts either a plain {data} payload or structured kinds
// (wifi, vcard). Structured payloads the primary rejects fall back to
// the text provider via the registry's adapter.
func (h *ProviderHandler) QRGenerate(c *gin.Context) {
	var req struct {
		Kind     string `json:"kind"`
		Data     string `json:"data"`
		SSID     string `json:"ssid"`
		Password string `json:"password"`
		Size     int    `json:"size"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "a QR payload is required")
		return
	}
	if req.Data == "" && req.SSID == "" {
		h.badRequest(c, "data or ssid is required")
		return
	}
	if req.Kind == "" {
		req.Kind = "text"
	}
	if req.Size == 0 {
		req.Size = 300
	}

	payload := map[string]any{"kind": req.Kind, "data": req.Data, "size": req.Size}
	if req.SSID != "" {
		payload["ssid"] = req.SSID
		payload["password"] = req.Password
	}
	h.pipe.Execute(c, "qr-generator", map[string]string{"size": strconv.Itoa(req.Size)}, payload, nil)
}

func (h *ProviderHandler) BarcodeGenerate(c *gin.Context) {
	data := c.Query("data")
	if data == "" {
		h.badRequest(c, "data is required")
		return
	}
	barcodeType := c.DefaultQuery("type", "code128")
	h.pipe.Execute(c, "barcode-generator", map[string]string{"data": data, "barcode_type": barcodeType}, nil, nil)
}

func (h *ProviderHandler) CurrencyConvert(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		h.badRequest(c, "from and to are required")
		return
	}
	amount := c.DefaultQuery("amount", "1")
	h.pipe.Execute(c, "currency-converter", map[string]string{"from": from, "to": to, "amount": amount}, nil, nil)
}
