// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package ical

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kelridge/icalcore/instant"
	"github.com/kelridge/icalcore/model"
	"github.com/kelridge/icalcore/recur"
	"github.com/kelridge/icalcore/rrule"
	"github.com/kelridge/icalcore/store"
	"github.com/kelridge/icalcore/tz"
)

// component is one BEGIN/END block with its properties in wire order
// and any nested sub-components.
type component struct {
	name     string
	props    []property
	children []*component
}

func (c *component) firstProp(name string) (property, bool) {
	for _, p := range c.props {
		if p.Name == name {
			return p, true
		}
	}
	return property{}, false
}

func (c *component) allProps(name string) []property {
	var out []property
	for _, p := range c.props {
		if p.Name == name {
			out = append(out, p)
		}
	}
	return out
}

// buildTree parses unfolded content lines into a tree of components.
func buildTree(lines []string) (*component, error) {
	var stack []*component
	var root *component
	for _, line := range lines {
		p, err := parseProperty(line)
		if err != nil {
			return nil, err
		}
		switch p.Name {
		case "BEGIN":
			c := &component{name: p.Value}
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				top.children = append(top.children, c)
			}
			stack = append(stack, c)
		case "END":
			if len(stack) == 0 {
				return nil, ErrMismatchedEnd
			}
			top := stack[len(stack)-1]
			if top.name != p.Value {
				return nil, fmt.Errorf("%w: BEGIN:%s / END:%s", ErrMismatchedEnd, top.name, p.Value)
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				root = top
			}
		default:
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			top.props = append(top.props, p)
		}
	}
	if len(stack) != 0 {
		return nil, ErrUnterminated
	}
	if root == nil || root.name != "VCALENDAR" {
		return nil, ErrNoCalendar
	}
	return root, nil
}

// Decode parses a full iCalendar document from r into a Calendar,
// registering any VTIMEZONE components on zones (a fresh collection is
// created if zones is nil) before resolving any NamedZone instant.
func Decode(r io.Reader, zones *tz.Collection) (*store.Calendar, error) {
	lines, err := unfold(r)
	if err != nil {
		return nil, err
	}
	root, err := buildTree(lines)
	if err != nil {
		return nil, err
	}
	if zones == nil {
		zones = tz.NewCollection()
	}

	now := time.Now().UTC()
	for _, child := range root.children {
		if child.name == "VTIMEZONE" {
			raw, err := decodeRawZone(child)
			if err != nil {
				return nil, err
			}
			z, err := tz.DecodeVTimezone(raw, now)
			if err != nil {
				return nil, err
			}
			zones.Add(z)
		}
	}

	cal := store.New(zones, false)
	if p, ok := root.firstProp("VERSION"); ok {
		cal.Version = p.Value
	}
	if p, ok := root.firstProp("PRODID"); ok {
		cal.ProdID = p.Value
	}
	if p, ok := root.firstProp("CALSCALE"); ok {
		cal.CalScale = p.Value
	}
	if p, ok := root.firstProp("METHOD"); ok {
		cal.Method = p.Value
	}

	legacyVersion, haveLegacyVersion := root.firstProp("X-KDE-ICAL-IMPLEMENTATION-VERSION")

	for _, child := range root.children {
		var inc model.Incidence
		var err error
		switch child.name {
		case "VEVENT":
			inc, err = decodeEvent(child, zones, legacyVersion, haveLegacyVersion)
		case "VTODO":
			inc, err = decodeTodo(child, zones, legacyVersion, haveLegacyVersion)
		case "VJOURNAL":
			inc, err = decodeJournal(child, zones, legacyVersion, haveLegacyVersion)
		case "VFREEBUSY":
			inc, err = decodeFreeBusy(child, zones)
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := cal.AddIncidence(inc); err != nil {
			return nil, err
		}
	}
	return cal, nil
}

func decodeRawZone(c *component) (tz.RawZone, error) {
	raw := tz.RawZone{}
	if p, ok := c.firstProp("TZID"); ok {
		raw.TZID = p.Value
	}
	for _, sub := range c.children {
		var kind tz.PhaseKind
		switch sub.name {
		case "STANDARD":
			kind = tz.StandardPhase
		case "DAYLIGHT":
			kind = tz.DaylightPhase
		default:
			continue
		}
		phase := tz.RawPhase{Kind: kind}
		if p, ok := sub.firstProp("DTSTART"); ok {
			phase.DTStart = p.Value
		}
		if p, ok := sub.firstProp("TZOFFSETFROM"); ok {
			phase.OffsetFrom = p.Value
		}
		if p, ok := sub.firstProp("TZOFFSETTO"); ok {
			phase.OffsetTo = p.Value
		}
		if p, ok := sub.firstProp("COMMENT"); ok {
			phase.Comment = unescapeText(p.Value)
		}
		if p, ok := sub.firstProp("RRULE"); ok {
			phase.RRuleValue = p.Value
		}
		for _, p := range sub.allProps("TZNAME") {
			phase.Names = append(phase.Names, p.Value)
		}
		for _, p := range sub.allProps("RDATE") {
			phase.RDates = append(phase.RDates, p.Value)
		}
		raw.Phases = append(raw.Phases, phase)
	}
	return raw, nil
}

// decodeDateTime decodes a DATE or DATE-TIME property value into an
// Instant, honoring VALUE=DATE and the TZID parameter.
func decodeDateTime(p property) (instant.Instant, error) {
	value := p.Value
	isDate := p.Params["VALUE"] == "DATE" || len(value) == 8

	if isDate {
		y, mo, d, err := parseDateDigits(value)
		if err != nil {
			return instant.Instant{}, err
		}
		return instant.NewDate(y, mo, d, instant.SpecFloating()), nil
	}

	spec := instant.SpecFloating()
	if strings.HasSuffix(value, "Z") {
		value = strings.TrimSuffix(value, "Z")
		spec = instant.SpecUTC()
	} else if tzid, ok := p.Params["TZID"]; ok {
		spec = instant.SpecNamed(tzid)
	}

	y, mo, d, h, mi, s, err := parseDateTimeDigits(value)
	if err != nil {
		return instant.Instant{}, err
	}
	return instant.New(y, mo, d, h, mi, s, spec), nil
}

func parseDateDigits(v string) (y, mo, d int, err error) {
	if len(v) != 8 {
		return 0, 0, 0, fmt.Errorf("%w: %s", ErrInvalidDateTime, v)
	}
	y, e1 := strconv.Atoi(v[0:4])
	mo, e2 := strconv.Atoi(v[4:6])
	d, e3 := strconv.Atoi(v[6:8])
	if e1 != nil || e2 != nil || e3 != nil {
		return 0, 0, 0, fmt.Errorf("%w: %s", ErrInvalidDateTime, v)
	}
	return y, mo, d, nil
}

func parseDateTimeDigits(v string) (y, mo, d, h, mi, s int, err error) {
	if len(v) != 15 || v[8] != 'T' {
		return 0, 0, 0, 0, 0, 0, fmt.Errorf("%w: %s", ErrInvalidDateTime, v)
	}
	y, mo, d, err = parseDateDigits(v[0:8])
	if err != nil {
		return 0, 0, 0, 0, 0, 0, err
	}
	h, e1 := strconv.Atoi(v[9:11])
	mi, e2 := strconv.Atoi(v[11:13])
	s, e3 := strconv.Atoi(v[13:15])
	if e1 != nil || e2 != nil || e3 != nil {
		return 0, 0, 0, 0, 0, 0, fmt.Errorf("%w: %s", ErrInvalidDateTime, v)
	}
	return y, mo, d, h, mi, s, nil
}

func decodeOrganizer(p property) *model.Organizer {
	org := &model.Organizer{CommonName: p.Params["CN"], Directory: p.Params["DIR"]}
	if u, err := url.Parse(p.Value); err == nil {
		org.CalAddress = u
	}
	return org
}

func decodeAttendee(p property) model.Attendee {
	a := model.Attendee{
		Name:     p.Params["CN"],
		Role:     model.AttendeeRole(p.Params["ROLE"]),
		PartStat: model.PartStat(p.Params["PARTSTAT"]),
		UID:      p.Params["X-UID"],
		Delegate: p.Params["DELEGATED-TO"],
		CUType:   model.ParseCUType(p.Params["CUTYPE"]),
	}
	a.Delegator = p.Params["DELEGATED-FROM"]
	a.RSVP = strings.EqualFold(p.Params["RSVP"], "TRUE")
	a.Email = strings.TrimPrefix(p.Value, "mailto:")
	return a
}

func decodeAttachment(p property) model.Attachment {
	att := model.Attachment{MimeType: p.Params["FMTTYPE"]}
	if strings.EqualFold(p.Params["ENCODING"], "BASE64") || strings.EqualFold(p.Params["VALUE"], "BINARY") {
		if data, err := base64.StdEncoding.DecodeString(p.Value); err == nil {
			att.Inline = data
		}
		return att
	}
	att.URI = p.Value
	return att
}

// applyCommonProperty applies a content line shared by every incidence
// kind to base, reporting whether it recognized the property name.
func applyCommonProperty(base *model.IncidenceBase, p property) (bool, error) {
	switch p.Name {
	case "UID":
		base.UID = p.Value
	case "DTSTAMP":
		i, err := decodeDateTime(p)
		if err != nil {
			return true, err
		}
		base.DTStamp = i
	case "DTSTART":
		i, err := decodeDateTime(p)
		if err != nil {
			return true, err
		}
		base.DTStart = i
		base.AllDay = i.DateOnly
	case "LAST-MODIFIED":
		i, err := decodeDateTime(p)
		if err != nil {
			return true, err
		}
		base.LastModified = i
	case "CREATED":
		i, err := decodeDateTime(p)
		if err != nil {
			return true, err
		}
		base.Created = i
		base.HasCreated = true
	case "X-KDE-ICAL-IMPLEMENTATION-VERSION":
		// Legacy marker, resolved by applyCreatedLegacy once the whole
		// component has been scanned; never round-tripped (§4.H).
		return true, nil
	case "RECURRENCE-ID":
		i, err := decodeDateTime(p)
		if err != nil {
			return true, err
		}
		base.RecurrenceID = &i
	case "SEQUENCE":
		n, err := strconv.Atoi(p.Value)
		if err != nil {
			return true, fmt.Errorf("ical: bad SEQUENCE %q: %w", p.Value, err)
		}
		base.Sequence = n
	case "ORGANIZER":
		base.Organizer = decodeOrganizer(p)
	case "ATTENDEE":
		base.Attendees = append(base.Attendees, decodeAttendee(p))
	case "DURATION":
		d, err := parseDuration(p.Value)
		if err != nil {
			return true, err
		}
		base.Duration = d
		base.HasDuration = true
	case "URL":
		base.URL = p.Value
	case "COMMENT":
		base.Comments = append(base.Comments, unescapeText(p.Value))
	case "CONTACT":
		base.Contacts = append(base.Contacts, unescapeText(p.Value))
	case "ATTACH":
		base.Attachments = append(base.Attachments, decodeAttachment(p))
	default:
		if model.IsCustomName(p.Name) {
			base.CustomProperties.Set(p.Name, p.Value)
			return true, nil
		}
		return false, nil
	}
	return true, nil
}

// recurrenceBits collects the recurrence-defining properties seen
// across a component's property list, applied once DTSTART is known.
type recurrenceBits struct {
	rrules, exrules    []string
	rdates, exdates    []property
}

func collectRecurrenceBits(c *component) recurrenceBits {
	var bits recurrenceBits
	for _, p := range c.allProps("RRULE") {
		bits.rrules = append(bits.rrules, p.Value)
	}
	for _, p := range c.allProps("EXRULE") {
		bits.exrules = append(bits.exrules, p.Value)
	}
	bits.rdates = c.allProps("RDATE")
	bits.exdates = c.allProps("EXDATE")
	return bits
}

func (bits recurrenceBits) empty() bool {
	return len(bits.rrules) == 0 && len(bits.exrules) == 0 && len(bits.rdates) == 0 && len(bits.exdates) == 0
}

func applyRecurrence(base *model.IncidenceBase, bits recurrenceBits, zones *tz.Collection) error {
	if bits.empty() || base.RecurrenceID != nil {
		return nil
	}
	agg := recur.New(base.DTStart, zones, base.AllDay)
	for _, v := range bits.rrules {
		rule, err := rrule.ParseRRule(v, base.DTStart)
		if err != nil {
			return err
		}
		agg.AddRRule(rule)
	}
	for _, v := range bits.exrules {
		rule, err := rrule.ParseRRule(v, base.DTStart)
		if err != nil {
			return err
		}
		agg.AddExRule(rule)
	}
	for _, p := range bits.rdates {
		for _, part := range strings.Split(p.Value, ",") {
			i, err := decodeDateTime(property{Name: "RDATE", Params: p.Params, Value: part})
			if err != nil {
				return err
			}
			agg.AddRDate(i)
		}
	}
	for _, p := range bits.exdates {
		for _, part := range strings.Split(p.Value, ",") {
			i, err := decodeDateTime(property{Name: "EXDATE", Params: p.Params, Value: part})
			if err != nil {
				return err
			}
			agg.AddExDate(i)
		}
	}
	base.Recurrence = agg
	return nil
}

// applyCreatedLegacy resolves base.Created against the
// X-KDE-ICAL-IMPLEMENTATION-VERSION quirk: under implementation
// version < 1.0 (or its absence), CREATED was historically aliased to
// DTSTAMP rather than carrying its own creation timestamp; version
// >= 1.0 uses CREATED literally, as already set by applyCommonProperty.
//
// The marker is a VCALENDAR-level property, not a per-component one
// (real exports from the affected libkcal versions never set it on
// the VEVENT/VTODO/VJOURNAL itself), so the caller passes down
// whatever Decode found on the root component. A component-level
// marker, if a producer ever did place one there, still wins when
// present, so a single mixed-vintage file can't have one component's
// marker silently override another's.
func applyCreatedLegacy(base *model.IncidenceBase, c *component, calVersion property, haveCalVersion bool) {
	p, ok := c.firstProp("X-KDE-ICAL-IMPLEMENTATION-VERSION")
	if !ok {
		p, ok = calVersion, haveCalVersion
	}
	if !ok {
		base.Created = base.DTStamp
		base.HasCreated = true
		return
	}
	if v, err := strconv.ParseFloat(p.Value, 64); err != nil || v < 1.0 {
		base.Created = base.DTStamp
		base.HasCreated = true
	}
}

// applyLocationFallback substitutes the non-standard X-LIC-LOCATION
// property for LOCATION when the latter was absent (§4.H).
func applyLocationFallback(base *model.IncidenceBase, location *string) {
	if *location != "" {
		return
	}
	if v, ok := base.CustomProperties.Get("X-LIC-LOCATION"); ok {
		*location = unescapeText(v)
	}
}

func decodeAlarms(c *component) ([]model.Alarm, error) {
	var out []model.Alarm
	for _, sub := range c.children {
		if sub.name != "VALARM" {
			continue
		}
		a := model.Alarm{CustomProperties: model.NewCustomProperties()}
		if p, ok := sub.firstProp("ACTION"); ok {
			a.Action = model.AlarmAction(p.Value)
		}
		if p, ok := sub.firstProp("TRIGGER"); ok {
			if strings.EqualFold(p.Params["RELATED"], "END") {
				a.TriggerFromEnd = true
			}
			d, err := parseDuration(p.Value)
			if err != nil {
				return nil, err
			}
			a.Trigger = d
		}
		if p, ok := sub.firstProp("DURATION"); ok {
			d, err := parseDuration(p.Value)
			if err != nil {
				return nil, err
			}
			a.Duration = d
			a.HasDuration = true
		}
		if p, ok := sub.firstProp("REPEAT"); ok {
			n, err := strconv.Atoi(p.Value)
			if err == nil {
				a.Repeat = n
			}
		}
		if p, ok := sub.firstProp("DESCRIPTION"); ok {
			a.Description = unescapeText(p.Value)
		}
		if p, ok := sub.firstProp("SUMMARY"); ok {
			a.Summary = unescapeText(p.Value)
		}
		for _, p := range sub.allProps("ATTACH") {
			a.Attach = append(a.Attach, decodeAttachment(p))
		}
		for _, p := range sub.allProps("ATTENDEE") {
			a.Attendees = append(a.Attendees, decodeAttendee(p))
		}
		out = append(out, a)
	}
	return out, nil
}

func decodeEvent(c *component, zones *tz.Collection, calVersion property, haveCalVersion bool) (*model.Event, error) {
	e := &model.Event{IncidenceBase: model.NewIncidenceBase("")}
	bits := collectRecurrenceBits(c)
	for _, p := range c.props {
		if handled, err := applyCommonProperty(&e.IncidenceBase, p); err != nil {
			return nil, err
		} else if handled {
			continue
		}
		switch p.Name {
		case "SUMMARY":
			e.Summary = unescapeText(p.Value)
		case "DESCRIPTION":
			e.Description = unescapeText(p.Value)
		case "LOCATION":
			e.Location = unescapeText(p.Value)
		case "STATUS":
			e.Status = model.EventStatus(p.Value)
		case "TRANSP":
			e.Transp = model.Transparency(p.Value)
		case "DTEND":
			i, err := decodeDateTime(p)
			if err != nil {
				return nil, err
			}
			e.DTEnd = i
			e.HasEndDate = true
		case "RRULE", "EXRULE", "RDATE", "EXDATE":
			// handled via bits below
		default:
			e.CustomProperties.Set(p.Name, p.Value)
		}
	}
	if e.UID == "" {
		return nil, ErrMissingUID
	}
	if e.DTStart == (instant.Instant{}) {
		return nil, ErrMissingDTStart
	}
	applyLocationFallback(&e.IncidenceBase, &e.Location)
	applyCreatedLegacy(&e.IncidenceBase, c, calVersion, haveCalVersion)
	if err := applyRecurrence(&e.IncidenceBase, bits, zones); err != nil {
		return nil, err
	}
	alarms, err := decodeAlarms(c)
	if err != nil {
		return nil, err
	}
	e.Alarms = alarms
	return e, nil
}

func decodeTodo(c *component, zones *tz.Collection, calVersion property, haveCalVersion bool) (*model.Todo, error) {
	td := &model.Todo{IncidenceBase: model.NewIncidenceBase("")}
	bits := collectRecurrenceBits(c)
	for _, p := range c.props {
		if handled, err := applyCommonProperty(&td.IncidenceBase, p); err != nil {
			return nil, err
		} else if handled {
			continue
		}
		switch p.Name {
		case "SUMMARY":
			td.Summary = unescapeText(p.Value)
		case "DESCRIPTION":
			td.Description = unescapeText(p.Value)
		case "LOCATION":
			td.Location = unescapeText(p.Value)
		case "STATUS":
			td.Status = model.TodoStatus(p.Value)
		case "DUE":
			i, err := decodeDateTime(p)
			if err != nil {
				return nil, err
			}
			td.DTDue = i
			td.HasDueDate = true
		case "COMPLETED":
			i, err := decodeDateTime(p)
			if err != nil {
				return nil, err
			}
			td.DTCompleted = i
			td.HasCompleted = true
		case "PERCENT-COMPLETE":
			n, err := strconv.Atoi(p.Value)
			if err != nil {
				return nil, fmt.Errorf("ical: bad PERCENT-COMPLETE %q: %w", p.Value, err)
			}
			td.PercentComplete = n
		case "RELATED-TO":
			td.RelatedTo = append(td.RelatedTo, p.Value)
		case "RRULE", "EXRULE", "RDATE", "EXDATE":
		default:
			td.CustomProperties.Set(p.Name, p.Value)
		}
	}
	if td.UID == "" {
		return nil, ErrMissingUID
	}
	applyLocationFallback(&td.IncidenceBase, &td.Location)
	applyCreatedLegacy(&td.IncidenceBase, c, calVersion, haveCalVersion)
	if err := applyRecurrence(&td.IncidenceBase, bits, zones); err != nil {
		return nil, err
	}
	alarms, err := decodeAlarms(c)
	if err != nil {
		return nil, err
	}
	td.Alarms = alarms
	return td, nil
}

func decodeJournal(c *component, zones *tz.Collection, calVersion property, haveCalVersion bool) (*model.Journal, error) {
	j := &model.Journal{IncidenceBase: model.NewIncidenceBase("")}
	bits := collectRecurrenceBits(c)
	for _, p := range c.props {
		if handled, err := applyCommonProperty(&j.IncidenceBase, p); err != nil {
			return nil, err
		} else if handled {
			continue
		}
		switch p.Name {
		case "SUMMARY":
			j.Summary = unescapeText(p.Value)
		case "DESCRIPTION":
			j.Description = append(j.Description, unescapeText(p.Value))
		case "STATUS":
			j.Status = model.JournalStatus(p.Value)
		case "CLASS":
			j.Class = model.JournalClass(p.Value)
		case "RRULE", "EXRULE", "RDATE", "EXDATE":
		default:
			j.CustomProperties.Set(p.Name, p.Value)
		}
	}
	if j.UID == "" {
		return nil, ErrMissingUID
	}
	applyCreatedLegacy(&j.IncidenceBase, c, calVersion, haveCalVersion)
	if err := applyRecurrence(&j.IncidenceBase, bits, zones); err != nil {
		return nil, err
	}
	return j, nil
}

func decodeFreeBusy(c *component, zones *tz.Collection) (*model.FreeBusy, error) {
	f := &model.FreeBusy{IncidenceBase: model.NewIncidenceBase("")}
	for _, p := range c.props {
		if handled, err := applyCommonProperty(&f.IncidenceBase, p); err != nil {
			return nil, err
		} else if handled {
			continue
		}
		switch p.Name {
		case "DTEND":
			i, err := decodeDateTime(p)
			if err != nil {
				return nil, err
			}
			f.DTEnd = i
		case "FREEBUSY":
			status := model.FreeBusyStatus(p.Params["FBTYPE"])
			if status == "" {
				status = model.FreeBusyStatusBusy
			}
			for _, part := range strings.Split(p.Value, ",") {
				start, end, ok := strings.Cut(part, "/")
				if !ok {
					return nil, fmt.Errorf("%w: %s", ErrInvalidDateTime, part)
				}
				s, err := decodeDateTime(property{Name: "FREEBUSY", Params: p.Params, Value: start})
				if err != nil {
					return nil, err
				}
				e, err := decodeDurationOrDateTime(end, s)
				if err != nil {
					return nil, err
				}
				f.Busy = append(f.Busy, model.BusyPeriod{Start: s, End: e, Status: status})
			}
		default:
			f.CustomProperties.Set(p.Name, p.Value)
		}
	}
	if f.UID == "" {
		return nil, ErrMissingUID
	}
	return f, nil
}

// decodeDurationOrDateTime decodes the second half of a FREEBUSY
// period, which RFC 5545 §3.8.2.6 allows as either an absolute
// DATE-TIME or a DURATION relative to start.
func decodeDurationOrDateTime(s string, start instant.Instant) (instant.Instant, error) {
	if strings.HasPrefix(s, "P") || strings.HasPrefix(s, "+P") || strings.HasPrefix(s, "-P") {
		d, err := parseDuration(s)
		if err != nil {
			return instant.Instant{}, err
		}
		return start.Add(d, nil), nil
	}
	return decodeDateTime(property{Name: "FREEBUSY", Value: s})
}
