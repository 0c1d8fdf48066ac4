package wizard

import (
	"reflect"
	"strings"
)

// Answers to yes/no radio questions.
const (
	Yes = "Yes"
	No  = "No"
)

// Event durations.
const (
	OneDayEvent    = "One Day Event"
	MultiDayEvent  = "Multi-Day Event"
	RecurringEvent = "Recurring Event"
)

// Venue types.
const (
	JGVenue       = "JG Venue"
	ExternalVenue = "External Venue"
	OnlineVenue   = "Online"
)

// FormData is the full state of the work request form. Its JSON encoding
// is the entry payload.
type FormData struct {
	// contact
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Cellphone    string `json:"cellphone"`
	Congregation string `json:"congregation"`

	// nature of request
	IncludesDatesVenue      bool   `json:"includesDatesVenue"`
	IncludesRegistration    bool   `json:"includesRegistration"`
	IncludesGraphics        bool   `json:"includesGraphics"`
	IncludesGraphicsDigital bool   `json:"includesGraphicsDigital"`
	IncludesGraphicsPrint   bool   `json:"includesGraphicsPrint"`
	IncludesSignage         bool   `json:"includesSignage"`
	Ministry                string `json:"ministry"`
	RequestSummary          string `json:"requestSummary"`
	IsOrganiser             string `json:"isOrganiser"`
	OrganiserFirstName      string `json:"organiserFirstName"`
	OrganiserLastName       string `json:"organiserLastName"`
	OrganiserEmail          string `json:"organiserEmail"`
	OrganiserCellphone      string `json:"organiserCellphone"`
	OrganiserCongregation   string `json:"organiserCongregation"`

	// event details
	EventName            string `json:"eventName"`
	EventDescription     string `json:"eventDescription"`
	EventDuration        string `json:"eventDuration"`
	EventStartDate       string `json:"eventStartDate"`
	EventEndDate         string `json:"eventEndDate"`
	EventStartTime       string `json:"eventStartTime"`
	EventEndTime         string `json:"eventEndTime"`
	RecurringFrequency   string `json:"recurringFrequency"`
	RecurringDay         string `json:"recurringDay"`
	RecurringStartMonth  string `json:"recurringStartMonth"`
	RecurringEndMonth    string `json:"recurringEndMonth"`
	VenueType            string `json:"venueType"`
	Hub                  string `json:"hub"`
	Venue                string `json:"venue"`
	ExternalVenueName    string `json:"externalVenueName"`
	ExternalVenueAddress string `json:"externalVenueAddress"`
	ExpectedAttendance   string `json:"expectedAttendance"`
	TargetAudience       string `json:"targetAudience"`
	NeedsSetup           bool   `json:"needsSetup"`
	SetupRequirements    string `json:"setupRequirements"`
	NeedsSound           bool   `json:"needsSound"`
	SoundRequirements    string `json:"soundRequirements"`
	NeedsCatering        bool   `json:"needsCatering"`
	CateringRequirements string `json:"cateringRequirements"`

	// registration (Quicket)
	RegistrationOpenDate    string `json:"registrationOpenDate"`
	RegistrationCloseDate   string `json:"registrationCloseDate"`
	TicketFree              bool   `json:"ticketFree"`
	TicketFreeQty           string `json:"ticketFreeQty"`
	TicketGeneral           bool   `json:"ticketGeneral"`
	TicketGeneralPrice      string `json:"ticketGeneralPrice"`
	TicketGeneralQty        string `json:"ticketGeneralQty"`
	TicketEarlyBird         bool   `json:"ticketEarlyBird"`
	TicketEarlyBirdPrice    string `json:"ticketEarlyBirdPrice"`
	TicketEarlyBirdQty      string `json:"ticketEarlyBirdQty"`
	TicketEarlyBirdEndDate  string `json:"ticketEarlyBirdEndDate"`
	TicketVip               bool   `json:"ticketVip"`
	TicketVipPrice          string `json:"ticketVipPrice"`
	TicketVipQty            string `json:"ticketVipQty"`
	TicketChild             bool   `json:"ticketChild"`
	TicketChildPrice        string `json:"ticketChildPrice"`
	TicketChildQty          string `json:"ticketChildQty"`
	TicketGroup             bool   `json:"ticketGroup"`
	TicketGroupPrice        string `json:"ticketGroupPrice"`
	TicketGroupQty          string `json:"ticketGroupQty"`
	TicketGroupSize         string `json:"ticketGroupSize"`
	CollectFullName         bool   `json:"collectFullName"`
	CollectEmail            bool   `json:"collectEmail"`
	CollectCellphone        bool   `json:"collectCellphone"`
	CollectCongregation     bool   `json:"collectCongregation"`
	CollectAge              bool   `json:"collectAge"`
	CollectGender           bool   `json:"collectGender"`
	CollectMedical          bool   `json:"collectMedical"`
	CollectDietary          bool   `json:"collectDietary"`
	CollectTshirtSize       bool   `json:"collectTshirtSize"`
	CollectEmergencyContact bool   `json:"collectEmergencyContact"`
	CustomQuestions         string `json:"customQuestions"`
	RefundPolicy            string `json:"refundPolicy"`

	// digital media
	DigitalSocialMedia   bool   `json:"digitalSocialMedia"`
	DigitalScreens       bool   `json:"digitalScreens"`
	DigitalWebsite       bool   `json:"digitalWebsite"`
	DigitalEmail         bool   `json:"digitalEmail"`
	DigitalWhatsapp      bool   `json:"digitalWhatsapp"`
	DigitalVideo         bool   `json:"digitalVideo"`
	DigitalVideoLength   string `json:"digitalVideoLength"`
	DigitalBrief         string `json:"digitalBrief"`
	DigitalKeyMessage    string `json:"digitalKeyMessage"`
	DigitalCallToAction  string `json:"digitalCallToAction"`
	DigitalLinks         string `json:"digitalLinks"`
	DigitalDeadline      string `json:"digitalDeadline"`
	DigitalBrandingNotes string `json:"digitalBrandingNotes"`

	// print media
	PrintFlyersA5         bool   `json:"printFlyersA5"`
	PrintFlyersA5Qty      string `json:"printFlyersA5Qty"`
	PrintPostersA3        bool   `json:"printPostersA3"`
	PrintPostersA3Qty     string `json:"printPostersA3Qty"`
	PrintPostersA2        bool   `json:"printPostersA2"`
	PrintPostersA2Qty     string `json:"printPostersA2Qty"`
	PrintPullUpBanners    bool   `json:"printPullUpBanners"`
	PrintPullUpBannersQty string `json:"printPullUpBannersQty"`
	PrintBrochures        bool   `json:"printBrochures"`
	PrintBrochuresQty     string `json:"printBrochuresQty"`
	PrintInvitations      bool   `json:"printInvitations"`
	PrintInvitationsQty   string `json:"printInvitationsQty"`
	PrintTickets          bool   `json:"printTickets"`
	PrintTicketsQty       string `json:"printTicketsQty"`
	PrintDoubleSided      bool   `json:"printDoubleSided"`
	PrintDeadline         string `json:"printDeadline"`
	PrintDeliveryHub      string `json:"printDeliveryHub"`
	PrintNotes            string `json:"printNotes"`

	// signage: direction groups
	SignDirectionParking              bool   `json:"signDirectionParking"`
	SignDirectionParkingLeftQty       string `json:"signDirectionParkingLeftQty"`
	SignDirectionParkingRightQty      string `json:"signDirectionParkingRightQty"`
	SignDirectionParkingAheadQty      string `json:"signDirectionParkingAheadQty"`
	SignDirectionParkingBackQty       string `json:"signDirectionParkingBackQty"`
	SignDirectionVenue                bool   `json:"signDirectionVenue"`
	SignDirectionVenueLeftQty         string `json:"signDirectionVenueLeftQty"`
	SignDirectionVenueRightQty        string `json:"signDirectionVenueRightQty"`
	SignDirectionVenueAheadQty        string `json:"signDirectionVenueAheadQty"`
	SignDirectionVenueBackQty         string `json:"signDirectionVenueBackQty"`
	SignDirectionRegistration         bool   `json:"signDirectionRegistration"`
	SignDirectionRegistrationLeftQty  string `json:"signDirectionRegistrationLeftQty"`
	SignDirectionRegistrationRightQty string `json:"signDirectionRegistrationRightQty"`
	SignDirectionRegistrationAheadQty string `json:"signDirectionRegistrationAheadQty"`
	SignDirectionRegistrationBackQty  string `json:"signDirectionRegistrationBackQty"`
	SignDirectionToilets              bool   `json:"signDirectionToilets"`
	SignDirectionToiletsLeftQty       string `json:"signDirectionToiletsLeftQty"`
	SignDirectionToiletsRightQty      string `json:"signDirectionToiletsRightQty"`
	SignDirectionToiletsAheadQty      string `json:"signDirectionToiletsAheadQty"`
	SignDirectionToiletsBackQty       string `json:"signDirectionToiletsBackQty"`

	// signage: single signs
	ToiletsMale          bool   `json:"toiletsMale"`
	ToiletsMaleQty       string `json:"toiletsMaleQty"`
	ToiletsFemale        bool   `json:"toiletsFemale"`
	ToiletsFemaleQty     string `json:"toiletsFemaleQty"`
	ToiletsAccessible    bool   `json:"toiletsAccessible"`
	ToiletsAccessibleQty string `json:"toiletsAccessibleQty"`
	BabyChanging         bool   `json:"babyChanging"`
	BabyChangingQty      string `json:"babyChangingQty"`
	NoEntry              bool   `json:"noEntry"`
	NoEntryQty           string `json:"noEntryQty"`
	ReservedSeating      bool   `json:"reservedSeating"`
	ReservedSeatingQty   string `json:"reservedSeatingQty"`
	FirstAid             bool   `json:"firstAid"`
	FirstAidQty          string `json:"firstAidQty"`
	WelcomeBanner        bool   `json:"welcomeBanner"`
	WelcomeBannerQty     string `json:"welcomeBannerQty"`
	WifiDetails          bool   `json:"wifiDetails"`
	WifiDetailsQty       string `json:"wifiDetailsQty"`

	SignageDeliveryDate   string `json:"signageDeliveryDate"`
	SignageCollectionDate string `json:"signageCollectionDate"`
	SignageNotes          string `json:"signageNotes"`
}

var fieldKeys = func() []string {
	t := reflect.TypeOf(FormData{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if name, _, _ := strings.Cut(tag, ","); name != "" && name != "-" {
			keys = append(keys, name)
		}
	}
	return keys
}()

// FieldKeys lists the payload keys of the form in declaration order.
func FieldKeys() []string {
	return append([]string(nil), fieldKeys...)
}
