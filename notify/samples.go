package notify

import (
	"github.com/goccy/go-json"
	"github.com/mbolis/work-requests/payload"
	"github.com/mbolis/work-requests/wizard"
)

// sampleForm illustrates the primary form in the placeholder catalog until
// real entries provide samples.
var sampleForm = wizard.FormData{
	FirstName:    "Jane",
	LastName:     "Doe",
	Email:        "jane.doe@example.org",
	Cellphone:    "+27 82 123 4567",
	Congregation: "JG North",

	IncludesDatesVenue:      true,
	IncludesRegistration:    true,
	IncludesGraphics:        true,
	IncludesGraphicsDigital: true,
	IncludesGraphicsPrint:   true,
	IncludesSignage:         true,
	Ministry:                "Youth",
	RequestSummary:          "Camp logistics, registration and publicity",
	IsOrganiser:             wizard.No,
	OrganiserFirstName:      "John",
	OrganiserLastName:       "Smith",
	OrganiserEmail:          "john.smith@example.org",
	OrganiserCellphone:      "+27 83 555 0101",
	OrganiserCongregation:   "JG East",

	EventName:            "Youth Camp",
	EventDescription:     "A weekend away for the high school youth.",
	EventDuration:        wizard.MultiDayEvent,
	EventStartDate:       "2026-04-03",
	EventEndDate:         "2026-04-05",
	EventStartTime:       "09:00",
	EventEndTime:         "17:00",
	RecurringFrequency:   "Weekly",
	RecurringDay:         "Sunday",
	RecurringStartMonth:  "2026-04",
	RecurringEndMonth:    "2026-06",
	VenueType:            wizard.JGVenue,
	Hub:                  "North",
	Venue:                "Main Auditorium",
	ExternalVenueName:    "Lakeside Lodge",
	ExternalVenueAddress: "12 Lake Road, Centurion",
	ExpectedAttendance:   "150",
	TargetAudience:       "Grades 8 to 12",
	NeedsSetup:           true,
	SetupRequirements:    "Stage and 20 round tables",
	NeedsSound:           true,
	SoundRequirements:    "Two handheld microphones",
	NeedsCatering:        true,
	CateringRequirements: "Lunch for 150",

	RegistrationOpenDate:   "2026-03-01",
	RegistrationCloseDate:  "2026-03-31",
	TicketGeneral:          true,
	TicketGeneralPrice:     "350",
	TicketGeneralQty:       "120",
	TicketEarlyBird:        true,
	TicketEarlyBirdPrice:   "300",
	TicketEarlyBirdQty:     "30",
	TicketEarlyBirdEndDate: "2026-03-15",
	TicketGroupSize:        "5",
	CollectFullName:        true,
	CollectEmail:           true,
	CollectCellphone:       true,
	CustomQuestions:        "Which tent group would you like to join?",
	RefundPolicy:           "Refunds until 7 days before the event.",

	DigitalSocialMedia: true,
	DigitalScreens:     true,
	DigitalVideo:       true,
	DigitalVideoLength: "30 seconds",
	DigitalBrief:       "Bright, outdoors, adventurous.",
	DigitalKeyMessage:  "Register before the end of March.",
	DigitalDeadline:    "2026-02-20",

	PrintFlyersA5:     true,
	PrintFlyersA5Qty:  "500",
	PrintPostersA3:    true,
	PrintPostersA3Qty: "20",
	PrintDoubleSided:  true,
	PrintDeadline:     "2026-02-25",
	PrintDeliveryHub:  "North",
	PrintNotes:        "Deliver to the hub office.",

	SignDirectionParking:         true,
	SignDirectionParkingLeftQty:  "2",
	SignDirectionParkingAheadQty: "1",
	ToiletsMale:                  true,
	ToiletsMaleQty:               "2",
	ToiletsFemale:                true,
	ToiletsFemaleQty:             "2",
	WelcomeBanner:                true,
	WelcomeBannerQty:             "1",
	SignageDeliveryDate:          "2026-04-02",
	SignageCollectionDate:        "2026-04-06",
	SignageNotes:                 "Collect from reception.",
}

var schemaSamples = func() map[string]string {
	samples := map[string]string{}
	b, err := json.Marshal(sampleForm)
	if err != nil {
		return samples
	}
	v, err := payload.Decode(b)
	if err != nil {
		return samples
	}
	for _, pair := range payload.Flatten(v, "") {
		samples[pair.Key] = pair.Value
	}
	return samples
}()
