// internal/models/tenant.go
package models

// TenantConfig holds the per-shop widget settings. It is owned by the
// merchant dashboard; the assistant core only reads it, except for the
// key-regeneration endpoint.
type TenantConfig struct {
	BaseModel
	Shop    string `json:"shop" gorm:"uniqueIndex;size:255;not null"`
	APIKey  string `json:"api_key" gorm:"uniqueIndex;size:64;not null"`
	Enabled bool   `json:"enabled" gorm:"default:false"`

	// Model provider settings
	Provider    ProviderName `json:"provider" gorm:"type:varchar(20);default:'openai'"`
	Model       string       `json:"model" gorm:"size:100;default:'gpt-4'"`
	ProviderKey string       `json:"-" gorm:"size:255"`
	MaxTokens   int          `json:"max_tokens" gorm:"default:500"`
	Temperature float64      `json:"temperature" gorm:"default:0.7"`

	// Display / prompt settings
	CustomPrompt   string `json:"custom_prompt" gorm:"type:text"`
	WelcomeMessage string `json:"welcome_message" gorm:"size:1024;default:'Hi! How can I help you shop today?'"`
	WidgetPosition string `json:"widget_position" gorm:"size:20;default:'bottom-right'"`
	PrimaryColor   string `json:"primary_color" gorm:"size:20;default:'#000000'"`
	AccentColor    string `json:"accent_color" gorm:"size:20;default:'#ffffff'"`
}
