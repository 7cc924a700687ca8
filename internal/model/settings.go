package model

// Language is a supported client language
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSpanish Language = "es"
)

// Validate checks that the language is supported
func (l Language) Validate() error {
	switch l {
	case LanguageEnglish, LanguageSpanish:
		return nil
	default:
		return ErrInvalidLanguage
	}
}

// PlayerSettings holds a player's client preferences
type PlayerSettings struct {
	PlayerID  PlayerID
	Volume    bool
	Vibration bool
	Language  Language
}

// SettingsPatch is a partial settings update; nil fields are left unchanged
type SettingsPatch struct {
	Volume    *bool
	Vibration *bool
	Language  *Language
}

// Validate checks the supplied fields of the patch
func (p SettingsPatch) Validate() error {
	if p.Language != nil {
		return p.Language.Validate()
	}
	return nil
}

// IsEmpty reports whether the patch changes nothing
func (p SettingsPatch) IsEmpty() bool {
	return p.Volume == nil && p.Vibration == nil && p.Language == nil
}

// Apply returns a copy of the settings with the patch applied
func (p SettingsPatch) Apply(s PlayerSettings) PlayerSettings {
	if p.Volume != nil {
		s.Volume = *p.Volume
	}
	if p.Vibration != nil {
		s.Vibration = *p.Vibration
	}
	if p.Language != nil {
		s.Language = *p.Language
	}
	return s
}
