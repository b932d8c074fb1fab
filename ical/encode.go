// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package ical

import (
	"encoding/base64"
	"fmt"
	"sort"
	"strings"

	"github.com/kelridge/icalcore/instant"
	"github.com/kelridge/icalcore/model"
	"github.com/kelridge/icalcore/store"
	"github.com/kelridge/icalcore/tz"
)

// Encode renders cal as a complete iCalendar document, including a
// VTIMEZONE for every named zone actually referenced by one of its
// incidences.
func Encode(cal *store.Calendar) string {
	var b strings.Builder
	b.WriteString(foldLine("BEGIN:VCALENDAR"))
	b.WriteString(foldLine(prop("VERSION", orDefault(cal.Version, "2.0"))))
	b.WriteString(foldLine(prop("PRODID", orDefault(cal.ProdID, "-//icalcore//EN"))))
	if cal.CalScale != "" {
		b.WriteString(foldLine(prop("CALSCALE", cal.CalScale)))
	}
	if cal.Method != "" {
		b.WriteString(foldLine(prop("METHOD", cal.Method)))
	}

	incidences := cal.All()
	for _, tzid := range referencedZones(incidences) {
		if z, ok := cal.Zones.Zone(tzid); ok {
			b.WriteString(tz.EncodeVTimezone(z))
		}
	}

	enc := &encoder{b: &b}
	for _, inc := range incidences {
		inc.Accept(enc)
	}

	b.WriteString(foldLine("END:VCALENDAR"))
	return b.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// referencedZones returns the sorted, de-duplicated set of TZIDs any
// incidence's DTSTART/DTEND/DUE carries.
func referencedZones(incidences []model.Incidence) []string {
	seen := make(map[string]bool)
	add := func(i instant.Instant) {
		if i.Spec.Kind == instant.NamedZone && i.Spec.TZID != "" {
			seen[i.Spec.TZID] = true
		}
	}
	for _, inc := range incidences {
		base := inc.Base()
		add(base.DTStart)
		switch v := inc.(type) {
		case *model.Event:
			if v.HasEndDate {
				add(v.DTEnd)
			}
		case *model.Todo:
			if v.HasDueDate {
				add(v.DTDue)
			}
		case *model.FreeBusy:
			add(v.DTEnd)
		}
	}
	out := make([]string, 0, len(seen))
	for tzid := range seen {
		out = append(out, tzid)
	}
	sort.Strings(out)
	return out
}

// encoder implements model.Visitor, rendering each incidence kind to
// its VEVENT/VTODO/VJOURNAL/VFREEBUSY form.
type encoder struct {
	b *strings.Builder
}

func prop(name, value string) string {
	return name + ":" + value
}

func propParam(name string, params map[string]string, value string) string {
	var b strings.Builder
	b.WriteString(name)
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, ";%s=%s", k, params[k])
	}
	b.WriteByte(':')
	b.WriteString(value)
	return b.String()
}

func (e *encoder) writeLine(line string) { e.b.WriteString(foldLine(line)) }

func writeDateTime(name string, i instant.Instant) string {
	params := map[string]string{}
	if i.DateOnly {
		params["VALUE"] = "DATE"
		return propParam(name, params, fmt.Sprintf("%04d%02d%02d", i.Wall.Year, i.Wall.Month, i.Wall.Day))
	}
	suffix := ""
	switch i.Spec.Kind {
	case instant.UTC:
		suffix = "Z"
	case instant.NamedZone:
		params["TZID"] = i.Spec.TZID
	}
	return propParam(name, params, fmt.Sprintf("%04d%02d%02dT%02d%02d%02d%s",
		i.Wall.Year, i.Wall.Month, i.Wall.Day, i.Wall.Hour, i.Wall.Minute, i.Wall.Second, suffix))
}

func writeOrganizer(o *model.Organizer) string {
	params := map[string]string{}
	if o.CommonName != "" {
		params["CN"] = o.CommonName
	}
	if o.Directory != "" {
		params["DIR"] = o.Directory
	}
	value := ""
	if o.CalAddress != nil {
		value = o.CalAddress.String()
	}
	return propParam("ORGANIZER", params, value)
}

func writeAttendee(a model.Attendee) string {
	params := map[string]string{}
	if a.Name != "" {
		params["CN"] = a.Name
	}
	if a.Role != "" {
		params["ROLE"] = string(a.Role)
	}
	if a.PartStat != "" {
		params["PARTSTAT"] = string(a.PartStat)
	}
	if a.RSVP {
		params["RSVP"] = "TRUE"
	}
	if a.Delegate != "" {
		params["DELEGATED-TO"] = a.Delegate
	}
	if a.Delegator != "" {
		params["DELEGATED-FROM"] = a.Delegator
	}
	params["CUTYPE"] = a.CUType.String()
	return propParam("ATTENDEE", params, "mailto:"+a.Email)
}

func writeAttachment(a model.Attachment) string {
	params := map[string]string{}
	if a.MimeType != "" {
		params["FMTTYPE"] = a.MimeType
	}
	if len(a.Inline) > 0 {
		params["ENCODING"] = "BASE64"
		params["VALUE"] = "BINARY"
		return propParam("ATTACH", params, base64.StdEncoding.EncodeToString(a.Inline))
	}
	return propParam("ATTACH", params, a.URI)
}

// writeCommon renders the properties shared by every incidence kind.
func (e *encoder) writeCommon(base *model.IncidenceBase) {
	e.writeLine(prop("UID", base.UID))
	e.writeLine(writeDateTime("DTSTAMP", base.DTStamp))
	e.writeLine(writeDateTime("DTSTART", base.DTStart))
	if base.RecurrenceID != nil {
		e.writeLine(writeDateTime("RECURRENCE-ID", *base.RecurrenceID))
	}
	if base.HasCreated {
		e.writeLine(writeDateTime("CREATED", base.Created))
	}
	if base.LastModified != (instant.Instant{}) {
		e.writeLine(writeDateTime("LAST-MODIFIED", base.LastModified))
	}
	if base.Sequence != 0 {
		e.writeLine(prop("SEQUENCE", fmt.Sprintf("%d", base.Sequence)))
	}
	if base.Organizer != nil {
		e.writeLine(writeOrganizer(base.Organizer))
	}
	for _, a := range base.Attendees {
		e.writeLine(writeAttendee(a))
	}
	if base.HasDuration {
		e.writeLine(prop("DURATION", formatDuration(base.Duration)))
	}
	if base.URL != "" {
		e.writeLine(prop("URL", base.URL))
	}
	for _, c := range base.Comments {
		e.writeLine(prop("COMMENT", escapeText(c)))
	}
	for _, c := range base.Contacts {
		e.writeLine(prop("CONTACT", escapeText(c)))
	}
	for _, a := range base.Attachments {
		e.writeLine(writeAttachment(a))
	}
	if base.Recurrence != nil {
		for _, r := range base.Recurrence.RRules() {
			e.writeLine(prop("RRULE", r.String()))
		}
		for _, d := range base.Recurrence.RDates() {
			e.writeLine(writeDateTime("RDATE", d))
		}
		for _, r := range base.Recurrence.ExRules() {
			e.writeLine(prop("EXRULE", r.String()))
		}
		for _, d := range base.Recurrence.ExDates() {
			e.writeLine(writeDateTime("EXDATE", d))
		}
	}
	if base.CustomProperties != nil {
		names := base.CustomProperties.Names()
		sort.Strings(names)
		for _, name := range names {
			v, _ := base.CustomProperties.Get(name)
			e.writeLine(prop(name, v))
		}
	}
}

func (e *encoder) writeAlarms(alarms []model.Alarm) {
	for _, a := range alarms {
		e.writeLine("BEGIN:VALARM")
		e.writeLine(prop("ACTION", string(a.Action)))
		triggerParams := map[string]string{}
		if a.TriggerFromEnd {
			triggerParams["RELATED"] = "END"
		}
		e.writeLine(propParam("TRIGGER", triggerParams, formatDuration(a.Trigger)))
		if a.HasDuration {
			e.writeLine(prop("DURATION", formatDuration(a.Duration)))
			e.writeLine(prop("REPEAT", fmt.Sprintf("%d", a.Repeat)))
		}
		if a.Description != "" {
			e.writeLine(prop("DESCRIPTION", escapeText(a.Description)))
		}
		if a.Summary != "" {
			e.writeLine(prop("SUMMARY", escapeText(a.Summary)))
		}
		for _, att := range a.Attach {
			e.writeLine(writeAttachment(att))
		}
		for _, at := range a.Attendees {
			e.writeLine(writeAttendee(at))
		}
		e.writeLine("END:VALARM")
	}
}

func (e *encoder) VisitEvent(ev *model.Event) {
	e.writeLine("BEGIN:VEVENT")
	e.writeCommon(&ev.IncidenceBase)
	if ev.Summary != "" {
		e.writeLine(prop("SUMMARY", escapeText(ev.Summary)))
	}
	if ev.Description != "" {
		e.writeLine(prop("DESCRIPTION", escapeText(ev.Description)))
	}
	if ev.Location != "" {
		e.writeLine(prop("LOCATION", escapeText(ev.Location)))
	}
	if ev.Status != "" {
		e.writeLine(prop("STATUS", string(ev.Status)))
	}
	if ev.Transp != "" {
		e.writeLine(prop("TRANSP", string(ev.Transp)))
	}
	if ev.HasEndDate {
		e.writeLine(writeDateTime("DTEND", ev.DTEnd))
	}
	e.writeAlarms(ev.Alarms)
	e.writeLine("END:VEVENT")
}

func (e *encoder) VisitTodo(td *model.Todo) {
	e.writeLine("BEGIN:VTODO")
	e.writeCommon(&td.IncidenceBase)
	if td.Summary != "" {
		e.writeLine(prop("SUMMARY", escapeText(td.Summary)))
	}
	if td.Description != "" {
		e.writeLine(prop("DESCRIPTION", escapeText(td.Description)))
	}
	if td.Location != "" {
		e.writeLine(prop("LOCATION", escapeText(td.Location)))
	}
	if td.Status != "" {
		e.writeLine(prop("STATUS", string(td.Status)))
	}
	if td.HasDueDate {
		e.writeLine(writeDateTime("DUE", td.DTDue))
	}
	if td.HasCompleted {
		e.writeLine(writeDateTime("COMPLETED", td.DTCompleted))
	}
	if td.PercentComplete != 0 {
		e.writeLine(prop("PERCENT-COMPLETE", fmt.Sprintf("%d", td.PercentComplete)))
	}
	for _, rt := range td.RelatedTo {
		e.writeLine(prop("RELATED-TO", rt))
	}
	e.writeAlarms(td.Alarms)
	e.writeLine("END:VTODO")
}

func (e *encoder) VisitJournal(j *model.Journal) {
	e.writeLine("BEGIN:VJOURNAL")
	e.writeCommon(&j.IncidenceBase)
	if j.Summary != "" {
		e.writeLine(prop("SUMMARY", escapeText(j.Summary)))
	}
	for _, d := range j.Description {
		e.writeLine(prop("DESCRIPTION", escapeText(d)))
	}
	if j.Status != "" {
		e.writeLine(prop("STATUS", string(j.Status)))
	}
	if j.Class != "" {
		e.writeLine(prop("CLASS", string(j.Class)))
	}
	e.writeLine("END:VJOURNAL")
}

func (e *encoder) VisitFreeBusy(f *model.FreeBusy) {
	e.writeLine("BEGIN:VFREEBUSY")
	e.writeCommon(&f.IncidenceBase)
	if f.DTEnd != (instant.Instant{}) {
		e.writeLine(writeDateTime("DTEND", f.DTEnd))
	}
	byStatus := make(map[model.FreeBusyStatus][]model.BusyPeriod)
	var order []model.FreeBusyStatus
	for _, p := range f.Busy {
		if _, ok := byStatus[p.Status]; !ok {
			order = append(order, p.Status)
		}
		byStatus[p.Status] = append(byStatus[p.Status], p)
	}
	for _, status := range order {
		periods := byStatus[status]
		parts := make([]string, len(periods))
		for i, p := range periods {
			parts[i] = renderDateTimeValue(p.Start) + "/" + renderDateTimeValue(p.End)
		}
		params := map[string]string{}
		if status != "" && status != model.FreeBusyStatusBusy {
			params["FBTYPE"] = string(status)
		}
		e.writeLine(propParam("FREEBUSY", params, strings.Join(parts, ",")))
	}
	e.writeLine("END:VFREEBUSY")
}

// renderDateTimeValue renders i's bare value without a property name,
// for use inside a composite value like FREEBUSY's period list.
func renderDateTimeValue(i instant.Instant) string {
	full := writeDateTime("X", i)
	_, value, _ := strings.Cut(full, ":")
	return value
}
