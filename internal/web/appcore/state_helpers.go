package appcore

import (
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

const liveNavigationQuery = "__live=navigation"

type FormationSignalState struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	StartDate     string `json:"startDate"`
	DurationHours int    `json:"durationHours"`
	Capacity      int    `json:"capacity"`
}

type SubscriberSignalState struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type InscriptionSignalState struct {
	InscriptionDate string `json:"inscriptionDate"`
	Status          string `json:"status"`
	FormationID     int64  `json:"formationId"`
	SubscriberID    int64  `json:"subscriberId"`
}

func FormationSignalsJSON(view FormationPageView) string {
	return marshalSignals(FormationSignalState{
		Title:         view.Formation.Title,
		Description:   view.Formation.Description,
		StartDate:     view.Formation.StartDate,
		DurationHours: view.Formation.DurationHours,
		Capacity:      view.Formation.Capacity,
	})
}

func SubscriberSignalsJSON(view SubscriberPageView) string {
	return marshalSignals(SubscriberSignalState{
		FirstName: view.Subscriber.FirstName,
		LastName:  view.Subscriber.LastName,
		Email:     view.Subscriber.Email,
		Phone:     view.Subscriber.Phone,
	})
}

func InscriptionSignalsJSON(view InscriptionPageView) string {
	return marshalSignals(InscriptionSignalState{
		InscriptionDate: view.Inscription.InscriptionDate,
		Status:          view.Inscription.Status,
		FormationID:     view.FormationID(),
		SubscriberID:    view.SubscriberID(),
	})
}

func marshalSignals[T interface{}](value T) string {
	payload, err := json.Marshal(value)
	if err != nil {
		return "{}"
	}

	return string(payload)
}

// LiveNavigationAction is the datastar expression that swaps the page
// content for target without a full reload.
func LiveNavigationAction(target string) string {
	separator := "?"
	if strings.Contains(target, "?") {
		separator = "&"
	}
	return "@get(" + strconv.Quote(target+separator+liveNavigationQuery) + ")"
}

func SectionLinkClass(active bool) string {
	if active {
		return "section-link active"
	}
	return "section-link"
}

func ModeLabel(mode EditorMode) string {
	switch mode {
	case ModeCreate:
		return "Create"
	case ModeEdit:
		return "Edit"
	default:
		return "View"
	}
}

func CountLabel(value int, unit string) string {
	if value <= 0 {
		return "-"
	}
	if value == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(value) + " " + unit + "s"
}
