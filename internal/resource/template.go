package resource

// Template holds the default booking policy applied when a resource of a
// given category is created, before any admin overrides.
type Template struct {
	MaxDurationHours int
	OpenTime         string
	CloseTime        string
	// Advance-notice horizon, per-user weekly quota and the recommended
	// cleaning buffer between bookings. Zero means no limit / no buffer.
	MaxAdvanceDays        int
	MaxPerUserPerWeek     int
	CleaningBufferMinutes int
}

// templates are the per-category defaults. Values follow common Swedish
// housing-association practice: laundry slots are short, daytime and
// rationed per household, a guest apartment is booked in whole days well
// in advance.
var templates = map[Category]Template{
	CategoryLaundry:        {MaxDurationHours: 4, OpenTime: "06:00", CloseTime: "22:00", MaxAdvanceDays: 7, MaxPerUserPerWeek: 2, CleaningBufferMinutes: 15},
	CategoryPartyRoom:      {MaxDurationHours: 6, OpenTime: "08:00", CloseTime: "22:00", MaxAdvanceDays: 14, MaxPerUserPerWeek: 1, CleaningBufferMinutes: 30},
	CategoryGuestApartment: {MaxDurationHours: 72, OpenTime: "00:00", CloseTime: "23:59", MaxAdvanceDays: 30, MaxPerUserPerWeek: 1, CleaningBufferMinutes: 120},
	CategorySauna:          {MaxDurationHours: 2, OpenTime: "06:00", CloseTime: "23:00", MaxAdvanceDays: 7, MaxPerUserPerWeek: 2, CleaningBufferMinutes: 15},
	CategoryGym:            {MaxDurationHours: 2, OpenTime: "05:00", CloseTime: "23:00", MaxAdvanceDays: 7},
	CategoryParking:        {MaxDurationHours: 24, OpenTime: "00:00", CloseTime: "23:59", MaxAdvanceDays: 30},
	CategoryStorage:        {MaxDurationHours: 24, OpenTime: "00:00", CloseTime: "23:59", MaxAdvanceDays: 30},
}

// defaultTemplate applies to any category without an explicit entry.
var defaultTemplate = Template{MaxDurationHours: 4, OpenTime: "08:00", CloseTime: "22:00", MaxAdvanceDays: 7, MaxPerUserPerWeek: 2, CleaningBufferMinutes: 15}

// alwaysOpenHours is the operating-hours override selected when an
// administrator marks a resource as always open. Only the hours change; the
// category still supplies duration, horizon and quota defaults.
var alwaysOpenHours = Template{OpenTime: "00:00", CloseTime: "23:59"}

// TemplateFor returns the default policy for a category. Pure lookup; safe
// to call repeatedly.
func TemplateFor(c Category) Template {
	if t, ok := templates[c]; ok {
		return t
	}
	return defaultTemplate
}

// AlwaysOpenTemplate returns the policy used for resources without daily
// operating hours.
func AlwaysOpenTemplate() Template {
	return alwaysOpenHours
}
