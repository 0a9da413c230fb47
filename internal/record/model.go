// File: internal/record/model.go
package record

import (
	"fmt"
	"path"
	"strings"
	"time"

	"medical_assistant_backend/internal/common"

	"github.com/google/uuid"
)

// Emotion is the emotion classified for a recording.
type Emotion string

const (
	EmotionNeutral   Emotion = "Neutral"
	EmotionAngry     Emotion = "Angry"
	EmotionHappiness Emotion = "Happiness"
	EmotionDisgust   Emotion = "Disgust"
	EmotionFear      Emotion = "Fear"
)

// Emotions lists every emotion in display order.
var Emotions = []Emotion{EmotionNeutral, EmotionAngry, EmotionHappiness, EmotionDisgust, EmotionFear}

// ParseEmotion matches s case-insensitively. An empty string is Neutral.
func ParseEmotion(s string) (Emotion, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return EmotionNeutral, nil
	}
	for _, e := range Emotions {
		if strings.EqualFold(s, string(e)) {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown emotion %q", s)
}

// Audio is a stored voice recording.
type Audio struct {
	common.BaseModel
	PatientID  string  `gorm:"type:varchar(64);not null;index"`
	Path       string  `gorm:"type:text;not null"` // relative to the recordings root
	DurationMs int64   `gorm:"not null;default:0"`
	Emotion    Emotion `gorm:"type:varchar(16);not null;default:'Neutral'"`
	MIME       string  `gorm:"type:varchar(64)"`
	SizeBytes  int64   `gorm:"not null;default:0"`
	Checksum   string  `gorm:"type:varchar(64)"`
}

// TableName specifies the table name for the Audio model.
func (Audio) TableName() string {
	return "audio_records"
}

// --- DTOs ---

// CreateAudioRequest holds the form fields sent with an upload.
type CreateAudioRequest struct {
	PatientID  string `form:"patient_id" binding:"omitempty,max=64"`
	DurationMs int64  `form:"duration_ms" binding:"gte=0"`
	Emotion    string `form:"emotion" binding:"omitempty,max=16"`
}

// ListQuery filters the record listing.
type ListQuery struct {
	PatientID string `form:"patient_id" binding:"omitempty,max=64"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
}

// AudioResponse is a recording as sent in API responses.
type AudioResponse struct {
	ID          uuid.UUID `json:"id"`
	PatientID   string    `json:"patient_id"`
	Path        string    `json:"path"`
	FileName    string    `json:"file_name"`
	DurationMs  int64     `json:"duration_ms"`
	Duration    string    `json:"duration"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedTime string    `json:"created_time"`
	CreatedDate string    `json:"created_date"`
	Emotion     Emotion   `json:"emotion"`
	Emoji       string    `json:"emoji"`
	MIME        string    `json:"mime,omitempty"`
	SizeBytes   int64     `json:"size_bytes"`
	Checksum    string    `json:"checksum,omitempty"`
}

// ToAudioResponse converts an Audio model to its response shape.
func ToAudioResponse(a Audio) AudioResponse {
	return AudioResponse{
		ID:          a.ID,
		PatientID:   a.PatientID,
		Path:        a.Path,
		FileName:    path.Base(a.Path),
		DurationMs:  a.DurationMs,
		Duration:    FormatDuration(a.DurationMs),
		CreatedAt:   a.CreatedAt,
		CreatedTime: FormatCreatedDate(a.CreatedAt),
		CreatedDate: FormatDate(a.CreatedAt),
		Emotion:     a.Emotion,
		Emoji:       EmojiForEmotion(a.Emotion),
		MIME:        a.MIME,
		SizeBytes:   a.SizeBytes,
		Checksum:    a.Checksum,
	}
}
