package upload

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/ManojKumarRabidas/Vyakaranaa/internal/config"
)

const (
	// sniffLen is how much of the payload is inspected when content sniffing is on.
	sniffLen = 3072
	// maxBaseLen caps the client-derived part of an artifact name.
	maxBaseLen  = 64
	defaultBase = "audio"
	defaultExt  = ".bin"
)

// Request is an inbound upload as seen by the pipeline.
type Request struct {
	Filename     string
	DeclaredMime string
	// DeclaredSize is negative when the transport does not know the length.
	DeclaredSize int64
	Body         io.Reader
}

// Admitted is a request that passed validation, together with the collision
// resistant name its artifact will be stored under.
type Admitted struct {
	Request
	MimeType     string
	ArtifactName string
	Extension    string
}

// mimeAliases maps non-canonical types browsers commonly send.
var mimeAliases = map[string]string{
	"audio/x-wav":    "audio/wav",
	"audio/wave":     "audio/wav",
	"audio/vnd.wave": "audio/wav",
	"audio/x-m4a":    "audio/m4a",
	"audio/x-mpeg":   "audio/mpeg",
}

var mimeExtensions = map[string]string{
	"audio/wav":  ".wav",
	"audio/webm": ".webm",
	"audio/ogg":  ".ogg",
	"audio/mpeg": ".mp3",
	"audio/mp3":  ".mp3",
	"audio/mp4":  ".m4a",
	"audio/m4a":  ".m4a",
	"audio/flac": ".flac",
	"audio/aac":  ".aac",
}

var audioExtensions = []string{".wav", ".webm", ".ogg", ".oga", ".opus", ".mp3", ".m4a", ".mp4", ".aac", ".flac"}

// Validator admits or rejects uploads. It never writes to disk.
type Validator struct {
	maxBytes int64
	allowed  map[string]struct{}
	sniff    bool

	now   func() time.Time
	newID func() string
}

// NewValidator creates a validator from the upload configuration.
func NewValidator(cfg config.Upload) *Validator {
	allowed := make(map[string]struct{}, len(cfg.AllowedMime))
	for _, m := range cfg.AllowedMime {
		allowed[NormalizeMime(m)] = struct{}{}
	}
	return &Validator{
		maxBytes: cfg.MaxFileSizeBytes,
		allowed:  allowed,
		sniff:    cfg.SniffContent,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
}

// MaxBytes is the configured size cap.
func (v *Validator) MaxBytes() int64 {
	return v.maxBytes
}

// AllowedMimeTypes returns the allow-set in sorted order.
func (v *Validator) AllowedMimeTypes() []string {
	keys := lo.Keys(v.allowed)
	slices.Sort(keys)
	return keys
}

// Validate checks presence, declared size and media type, in that order.
// When sniffing is enabled the first bytes of the body are inspected and
// stitched back so the returned request still yields the full payload.
func (v *Validator) Validate(req Request) (*Admitted, error) {
	if req.Body == nil || req.DeclaredSize == 0 {
		return nil, Reject(KindMissingPayload, "no audio provided")
	}
	if req.DeclaredSize > v.maxBytes {
		return nil, Reject(KindPayloadTooLarge, "declared size %d exceeds limit of %d bytes", req.DeclaredSize, v.maxBytes)
	}

	mt := NormalizeMime(req.DeclaredMime)
	if _, ok := v.allowed[mt]; !ok {
		return nil, Reject(KindUnsupportedMediaType, "media type %q is not accepted", req.DeclaredMime)
	}

	if v.sniff {
		body, err := v.sniffBody(req.Body)
		if err != nil {
			return nil, err
		}
		req.Body = body
	}

	ext := extensionFor(mt, req.Filename)
	name := fmt.Sprintf("%d_%s_%s%s", v.now().UnixNano(), shortID(v.newID()), sanitizeBase(req.Filename), ext)

	return &Admitted{
		Request:      req,
		MimeType:     mt,
		ArtifactName: name,
		Extension:    ext,
	}, nil
}

func (v *Validator) sniffBody(body io.Reader) (io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("read upload header: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return nil, Reject(KindMissingPayload, "no audio provided")
	}

	detected := mimetype.Detect(head)
	if !looksLikeAudio(detected) {
		return nil, Reject(KindUnsupportedMediaType, "content detected as %s", detected.String())
	}
	return io.MultiReader(bytes.NewReader(head), body), nil
}

// looksLikeAudio accepts audio types and the containers that carry audio
// (webm and mp4 are detected as video).
func looksLikeAudio(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		s := m.String()
		if strings.HasPrefix(s, "audio/") || strings.HasPrefix(s, "video/") || s == "application/ogg" {
			return true
		}
	}
	return false
}

// NormalizeMime lower-cases a media type, drops parameters such as
// ";codecs=opus" and resolves common aliases.
func NormalizeMime(raw string) string {
	mt, _, _ := strings.Cut(raw, ";")
	mt = strings.ToLower(strings.TrimSpace(mt))
	if canonical, ok := mimeAliases[mt]; ok {
		return canonical
	}
	return mt
}

func extensionFor(mimeType, filename string) string {
	if ext, ok := mimeExtensions[mimeType]; ok {
		return ext
	}
	ext := strings.ToLower(path.Ext(clientBase(filename)))
	if slices.Contains(audioExtensions, ext) {
		return ext
	}
	return defaultExt
}

// clientBase strips any directory part, whichever separator the client used.
func clientBase(filename string) string {
	return path.Base(strings.ReplaceAll(filename, "\\", "/"))
}

func sanitizeBase(filename string) string {
	base := clientBase(filename)
	base = strings.TrimSuffix(base, path.Ext(base))
	base = strings.Join(strings.Fields(base), "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		}
		return -1
	}, base)
	base = strings.TrimLeft(base, ".")
	if len(base) > maxBaseLen {
		base = base[:maxBaseLen]
	}
	if base == "" {
		return defaultBase
	}
	return base
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

var extensionMimes = map[string]string{
	".wav":  "audio/wav",
	".webm": "audio/webm",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/ogg",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/m4a",
	".mp4":  "audio/mp4",
	".aac":  "audio/aac",
	".flac": "audio/flac",
}

// MimeForFilename guesses the media type of a local file from its extension.
// Unknown extensions yield application/octet-stream.
func MimeForFilename(filename string) string {
	if mt, ok := extensionMimes[strings.ToLower(path.Ext(clientBase(filename)))]; ok {
		return mt
	}
	return "application/octet-stream"
}
