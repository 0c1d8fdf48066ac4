package wizard

import "time"

// Validator checks one step against the whole form. today is the caller's
// current date, used by the not-in-past rules.
type Validator func(d *FormData, today time.Time) Errors

func ValidateContact(d *FormData, today time.Time) Errors {
	c := newChecker(today)
	c.required("firstName", d.FirstName, "First name")
	c.required("lastName", d.LastName, "Last name")
	c.email("email", d.Email, "Email")
	c.phone("cellphone", d.Cellphone, "Cellphone")
	c.required("congregation", d.Congregation, "Congregation")
	return c.errs
}

func ValidateNature(d *FormData, today time.Time) Errors {
	c := newChecker(today)
	if !anyOf(d.IncludesDatesVenue, d.IncludesRegistration, d.IncludesGraphics,
		d.IncludesGraphicsDigital, d.IncludesGraphicsPrint, d.IncludesSignage) {
		c.fail("natureOfRequest", "Please select at least one type of request.")
	}
	if d.IncludesGraphics && !d.IncludesGraphicsDigital && !d.IncludesGraphicsPrint {
		c.fail("includesGraphics", "Please choose digital and/or print media.")
	}
	c.required("ministry", d.Ministry, "Ministry or department")
	if c.oneOf("isOrganiser", d.IsOrganiser, "Organiser answer", Yes, No) && d.IsOrganiser == No {
		c.required("organiserFirstName", d.OrganiserFirstName, "Organiser first name")
		c.required("organiserLastName", d.OrganiserLastName, "Organiser last name")
		c.email("organiserEmail", d.OrganiserEmail, "Organiser email")
		c.phone("organiserCellphone", d.OrganiserCellphone, "Organiser cellphone")
	}
	return c.errs
}

func ValidateEventDetails(d *FormData, today time.Time) Errors {
	c := newChecker(today)
	c.required("eventName", d.EventName, "Event name")
	c.required("eventDescription", d.EventDescription, "Event description")

	if c.oneOf("eventDuration", d.EventDuration, "Event duration", OneDayEvent, MultiDayEvent, RecurringEvent) {
		switch d.EventDuration {
		case OneDayEvent:
			c.futureDate("eventStartDate", d.EventStartDate, "Event date")
		case MultiDayEvent:
			start, _ := c.futureDate("eventStartDate", d.EventStartDate, "Start date")
			c.dateOnOrAfter("eventEndDate", d.EventEndDate, "End date", start, "Start date")
		case RecurringEvent:
			c.required("recurringFrequency", d.RecurringFrequency, "Frequency")
			c.required("recurringDay", d.RecurringDay, "Day of the week")
			start, startOk := c.month("recurringStartMonth", d.RecurringStartMonth, "Start month")
			if startOk && start.Before(time.Date(c.today.Year(), c.today.Month(), 1, 0, 0, 0, 0, c.today.Location())) {
				c.fail("recurringStartMonth", "Start month cannot be in the past.")
			}
			end, endOk := c.month("recurringEndMonth", d.RecurringEndMonth, "End month")
			if startOk && endOk && end.Before(start) {
				c.fail("recurringEndMonth", "End month must be the same as or after the start month.")
			}
		}
	}

	startTime, startOk := c.clock("eventStartTime", d.EventStartTime, "Start time")
	endTime, endOk := c.clock("eventEndTime", d.EventEndTime, "End time")
	if startOk && endOk && !endTime.After(startTime) {
		c.fail("eventEndTime", "End time must be after the start time.")
	}

	if c.oneOf("venueType", d.VenueType, "Venue type", JGVenue, ExternalVenue, OnlineVenue) {
		switch d.VenueType {
		case JGVenue:
			c.required("hub", d.Hub, "Hub")
			c.required("venue", d.Venue, "Venue")
		case ExternalVenue:
			c.required("externalVenueName", d.ExternalVenueName, "Venue name")
			c.required("externalVenueAddress", d.ExternalVenueAddress, "Venue address")
		}
	}

	if c.required("expectedAttendance", d.ExpectedAttendance, "Expected attendance") {
		if _, ok := parseQuantity(d.ExpectedAttendance); !ok {
			c.fail("expectedAttendance", "Expected attendance must be a whole number greater than 0.")
		}
	}
	c.required("targetAudience", d.TargetAudience, "Target audience")
	c.ifChecked(d.NeedsSetup, "setupRequirements", d.SetupRequirements, "Setup requirements")
	c.ifChecked(d.NeedsSound, "soundRequirements", d.SoundRequirements, "Sound requirements")
	c.ifChecked(d.NeedsCatering, "cateringRequirements", d.CateringRequirements, "Catering requirements")
	return c.errs
}

type ticketType struct {
	checked  bool
	prefix   string
	label    string
	paid     bool
	price    string
	quantity string
}

func (d *FormData) ticketTypes() []ticketType {
	return []ticketType{
		{d.TicketFree, "ticketFree", "free tickets", false, "", d.TicketFreeQty},
		{d.TicketGeneral, "ticketGeneral", "general tickets", true, d.TicketGeneralPrice, d.TicketGeneralQty},
		{d.TicketEarlyBird, "ticketEarlyBird", "early bird tickets", true, d.TicketEarlyBirdPrice, d.TicketEarlyBirdQty},
		{d.TicketVip, "ticketVip", "VIP tickets", true, d.TicketVipPrice, d.TicketVipQty},
		{d.TicketChild, "ticketChild", "child tickets", true, d.TicketChildPrice, d.TicketChildQty},
		{d.TicketGroup, "ticketGroup", "group tickets", true, d.TicketGroupPrice, d.TicketGroupQty},
	}
}

func ValidateQuicket(d *FormData, today time.Time) Errors {
	c := newChecker(today)
	open, _ := c.futureDate("registrationOpenDate", d.RegistrationOpenDate, "Registration open date")
	c.dateOnOrAfter("registrationCloseDate", d.RegistrationCloseDate, "Registration close date", open, "Registration open date")

	anyTicket, anyPaid := false, false
	for _, t := range d.ticketTypes() {
		if !t.checked {
			continue
		}
		anyTicket = true
		if t.paid {
			anyPaid = true
			c.price(t.prefix+"Price", t.price, t.label)
		}
		c.quantity(t.prefix+"Qty", t.quantity, t.label)
	}
	if !anyTicket {
		c.fail("ticketTypes", "Please select at least one ticket type.")
	}
	if d.TicketEarlyBird {
		c.futureDate("ticketEarlyBirdEndDate", d.TicketEarlyBirdEndDate, "Early bird end date")
	}
	if d.TicketGroup {
		if n, ok := parseQuantity(d.TicketGroupSize); !ok || n < 2 {
			c.fail("ticketGroupSize", "Group size must be a whole number of at least 2.")
		}
	}
	if anyPaid {
		c.required("refundPolicy", d.RefundPolicy, "Refund policy")
	}

	if !anyOf(d.CollectFullName, d.CollectEmail, d.CollectCellphone, d.CollectCongregation,
		d.CollectAge, d.CollectGender, d.CollectMedical, d.CollectDietary,
		d.CollectTshirtSize, d.CollectEmergencyContact) {
		c.fail("infoToCollect", "Please select at least one piece of information to collect.")
	}
	return c.errs
}

func ValidateDigital(d *FormData, today time.Time) Errors {
	c := newChecker(today)
	if !anyOf(d.DigitalSocialMedia, d.DigitalScreens, d.DigitalWebsite,
		d.DigitalEmail, d.DigitalWhatsapp, d.DigitalVideo) {
		c.fail("digitalChannels", "Please select at least one digital channel.")
	}
	c.ifChecked(d.DigitalVideo, "digitalVideoLength", d.DigitalVideoLength, "Video length")
	c.required("digitalBrief", d.DigitalBrief, "Design brief")
	c.required("digitalKeyMessage", d.DigitalKeyMessage, "Key message")
	c.futureDate("digitalDeadline", d.DigitalDeadline, "Deadline")
	return c.errs
}

type printItem struct {
	checked  bool
	key      string
	label    string
	quantity string
}

func (d *FormData) printItems() []printItem {
	return []printItem{
		{d.PrintFlyersA5, "printFlyersA5Qty", "A5 flyers", d.PrintFlyersA5Qty},
		{d.PrintPostersA3, "printPostersA3Qty", "A3 posters", d.PrintPostersA3Qty},
		{d.PrintPostersA2, "printPostersA2Qty", "A2 posters", d.PrintPostersA2Qty},
		{d.PrintPullUpBanners, "printPullUpBannersQty", "pull-up banners", d.PrintPullUpBannersQty},
		{d.PrintBrochures, "printBrochuresQty", "brochures", d.PrintBrochuresQty},
		{d.PrintInvitations, "printInvitationsQty", "invitations", d.PrintInvitationsQty},
		{d.PrintTickets, "printTicketsQty", "printed tickets", d.PrintTicketsQty},
	}
}

func ValidatePrint(d *FormData, today time.Time) Errors {
	c := newChecker(today)
	anySelected := false
	for _, item := range d.printItems() {
		if item.checked {
			anySelected = true
			c.quantity(item.key, item.quantity, item.label)
		}
	}
	if !anySelected {
		c.fail("printSelection", "Please select at least one print item.")
	}
	c.futureDate("printDeadline", d.PrintDeadline, "Print deadline")
	c.required("printDeliveryHub", d.PrintDeliveryHub, "Delivery hub")
	return c.errs
}

type directionGroup struct {
	checked    bool
	key        string
	label      string
	quantities [4]string
}

var directionSuffixes = [4]string{"LeftQty", "RightQty", "AheadQty", "BackQty"}

func (d *FormData) directionGroups() []directionGroup {
	return []directionGroup{
		{d.SignDirectionParking, "signDirectionParking", "parking direction signs",
			[4]string{d.SignDirectionParkingLeftQty, d.SignDirectionParkingRightQty, d.SignDirectionParkingAheadQty, d.SignDirectionParkingBackQty}},
		{d.SignDirectionVenue, "signDirectionVenue", "venue direction signs",
			[4]string{d.SignDirectionVenueLeftQty, d.SignDirectionVenueRightQty, d.SignDirectionVenueAheadQty, d.SignDirectionVenueBackQty}},
		{d.SignDirectionRegistration, "signDirectionRegistration", "registration direction signs",
			[4]string{d.SignDirectionRegistrationLeftQty, d.SignDirectionRegistrationRightQty, d.SignDirectionRegistrationAheadQty, d.SignDirectionRegistrationBackQty}},
		{d.SignDirectionToilets, "signDirectionToilets", "toilet direction signs",
			[4]string{d.SignDirectionToiletsLeftQty, d.SignDirectionToiletsRightQty, d.SignDirectionToiletsAheadQty, d.SignDirectionToiletsBackQty}},
	}
}

func (d *FormData) singleSigns() []printItem {
	return []printItem{
		{d.ToiletsMale, "toiletsMaleQty", "male toilet signs", d.ToiletsMaleQty},
		{d.ToiletsFemale, "toiletsFemaleQty", "female toilet signs", d.ToiletsFemaleQty},
		{d.ToiletsAccessible, "toiletsAccessibleQty", "accessible toilet signs", d.ToiletsAccessibleQty},
		{d.BabyChanging, "babyChangingQty", "baby changing signs", d.BabyChangingQty},
		{d.NoEntry, "noEntryQty", "no entry signs", d.NoEntryQty},
		{d.ReservedSeating, "reservedSeatingQty", "reserved seating signs", d.ReservedSeatingQty},
		{d.FirstAid, "firstAidQty", "first aid signs", d.FirstAidQty},
		{d.WelcomeBanner, "welcomeBannerQty", "welcome banners", d.WelcomeBannerQty},
		{d.WifiDetails, "wifiDetailsQty", "wifi details signs", d.WifiDetailsQty},
	}
}

func ValidateSignage(d *FormData, today time.Time) Errors {
	c := newChecker(today)
	anySelected := false

	for _, g := range d.directionGroups() {
		if !g.checked {
			continue
		}
		anySelected = true
		filled := 0
		for i, q := range g.quantities {
			if blank(q) {
				continue
			}
			filled++
			if _, ok := parseQuantity(q); !ok {
				c.fail(g.key+directionSuffixes[i], "Quantity for "+g.label+" must be a whole number greater than 0.")
			}
		}
		if filled == 0 {
			c.fail(g.key, "Please enter at least one quantity for "+g.label+".")
		}
	}

	for _, s := range d.singleSigns() {
		if s.checked {
			anySelected = true
			c.quantity(s.key, s.quantity, s.label)
		}
	}

	if !anySelected {
		c.fail("signageSelection", "Please select at least one sign.")
	}

	delivery, _ := c.futureDate("signageDeliveryDate", d.SignageDeliveryDate, "Delivery date")
	c.dateOnOrAfter("signageCollectionDate", d.SignageCollectionDate, "Collection date", delivery, "Delivery date")
	return c.errs
}
