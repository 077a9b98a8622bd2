package model

// SiteSettings is the singleton configuration document. Exactly one instance
// exists system-wide; partial updates merge into it.
type SiteSettings struct {
	Company       Company       `json:"company"`
	Contact       Contact       `json:"contact"`
	SocialMedia   SocialMedia   `json:"socialMedia"`
	BusinessHours BusinessHours `json:"businessHours"`
	Theme         Theme         `json:"theme"`
}

type Company struct {
	Name        string `json:"name"`
	Tagline     string `json:"tagline,omitempty"`
	Description string `json:"description,omitempty"`
	Logo        string `json:"logo,omitempty"`
	Favicon     string `json:"favicon,omitempty"`
}

type PhoneChannels struct {
	Primary   string `json:"primary,omitempty"`
	Secondary string `json:"secondary,omitempty"`
	WhatsApp  string `json:"whatsapp,omitempty"`
}

type EmailChannels struct {
	Primary string `json:"primary,omitempty"`
	Support string `json:"support,omitempty"`
	Sales   string `json:"sales,omitempty"`
}

type Contact struct {
	Phone   PhoneChannels `json:"phone"`
	Email   EmailChannels `json:"email"`
	Address Location      `json:"address"`
}

type SocialMedia struct {
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
}

type DayHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}

type BusinessHours struct {
	Monday    DayHours `json:"monday"`
	Tuesday   DayHours `json:"tuesday"`
	Wednesday DayHours `json:"wednesday"`
	Thursday  DayHours `json:"thursday"`
	Friday    DayHours `json:"friday"`
	Saturday  DayHours `json:"saturday"`
	Sunday    DayHours `json:"sunday"`
}

type Theme struct {
	PrimaryColor   string `json:"primaryColor,omitempty"`
	SecondaryColor string `json:"secondaryColor,omitempty"`
	AccentColor    string `json:"accentColor,omitempty"`
	FontFamily     string `json:"fontFamily,omitempty"`
}

// DefaultSettings returns the document the singleton is bootstrapped with.
func DefaultSettings() SiteSettings {
	weekday := DayHours{Open: "09:00", Close: "18:00"}
	return SiteSettings{
		Company: Company{
			Name:    "Real Estate Company",
			Tagline: "Your Dream Home Awaits",
		},
		BusinessHours: BusinessHours{
			Monday:    weekday,
			Tuesday:   weekday,
			Wednesday: weekday,
			Thursday:  weekday,
			Friday:    weekday,
			Saturday:  DayHours{Open: "09:00", Close: "15:00"},
			Sunday:    DayHours{Open: "10:00", Close: "14:00", Closed: true},
		},
		Theme: Theme{
			PrimaryColor:   "#007bff",
			SecondaryColor: "#6c757d",
			AccentColor:    "#28a745",
			FontFamily:     "Inter, sans-serif",
		},
	}
}
