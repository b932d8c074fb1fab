// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

import "strings"

// PropertyObserver is notified after every CustomProperties change.
type PropertyObserver interface {
	OnPropertyChanged(name, value string)
}

// CustomProperties is the X-prefixed (and IANA) property bag carried
// by every incidence kind. Names are ASCII A-Z a-z 0-9 '-'; setting a
// name to the empty value deletes it. Names of the form X-KDE-APP-KEY
// are the application-scoped convention with a dedicated accessor.
type CustomProperties struct {
	values    map[string]string
	observers []PropertyObserver
}

// NewCustomProperties returns an empty property bag.
func NewCustomProperties() *CustomProperties {
	return &CustomProperties{values: make(map[string]string)}
}

// Observe registers o to be notified after every Set.
func (p *CustomProperties) Observe(o PropertyObserver) { p.observers = append(p.observers, o) }

// Set stores value under name, or deletes name if value is empty,
// notifying observers either way.
func (p *CustomProperties) Set(name, value string) {
	if value == "" {
		delete(p.values, name)
	} else {
		p.values[name] = value
	}
	for _, o := range p.observers {
		o.OnPropertyChanged(name, value)
	}
}

// Get returns the value stored under name.
func (p *CustomProperties) Get(name string) (string, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Names returns every property name currently set, in no particular order.
func (p *CustomProperties) Names() []string {
	out := make([]string, 0, len(p.values))
	for n := range p.values {
		out = append(out, n)
	}
	return out
}

// kdeAppKeyPrefix is the application-scoped custom-property
// convention: X-KDE-APP-KEY, e.g. X-KDE-KORGANIZER-GEO.
const kdeAppKeyPrefix = "X-KDE-"

// SetAppKey sets the application-scoped property X-KDE-<app>-<key>.
func (p *CustomProperties) SetAppKey(app, key, value string) {
	p.Set(kdeAppKeyPrefix+strings.ToUpper(app)+"-"+strings.ToUpper(key), value)
}

// AppKey reads the application-scoped property X-KDE-<app>-<key>.
func (p *CustomProperties) AppKey(app, key string) (string, bool) {
	return p.Get(kdeAppKeyPrefix + strings.ToUpper(app) + "-" + strings.ToUpper(key))
}

// IsCustomName reports whether name follows the non-standard X-
// passthrough convention.
func IsCustomName(name string) bool {
	return strings.HasPrefix(name, "X-")
}

// Clone returns an independent copy of p with no observers attached.
func (p *CustomProperties) Clone() *CustomProperties {
	c := NewCustomProperties()
	for k, v := range p.values {
		c.values[k] = v
	}
	return c
}
