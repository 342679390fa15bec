// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

package calendar

import "time"

// DefaultFestivals returns the built-in multi-cultural festival table for
// 2026. Poya days follow the full-moon calendar; diaspora deployments
// typically extend this with host-country observances.
func DefaultFestivals() []Festival {
	return []Festival{
		{Name: "Duruthu Poya", Date: date(2026, 1, 3), Religious: true, Quiet: true},
		{Name: "Thai Pongal", Date: date(2026, 1, 14)},
		{Name: "Navam Poya", Date: date(2026, 2, 1), Religious: true, Quiet: true},
		{Name: "Maha Shivaratri", Date: date(2026, 2, 15), Religious: true},
		{Name: "Medin Poya", Date: date(2026, 3, 3), Religious: true, Quiet: true},
		{Name: "Bak Poya", Date: date(2026, 4, 1), Religious: true, Quiet: true},
		{Name: "Sinhala and Tamil New Year", Date: date(2026, 4, 14)},
		{Name: "Vesak Poya", Date: date(2026, 5, 1), Religious: true, Quiet: true},
		{Name: "Poson Poya", Date: date(2026, 5, 31), Religious: true, Quiet: true},
		{Name: "Esala Poya", Date: date(2026, 6, 29), Religious: true, Quiet: true},
		{Name: "Nikini Poya", Date: date(2026, 7, 28), Religious: true, Quiet: true},
		{Name: "Binara Poya", Date: date(2026, 8, 27), Religious: true, Quiet: true},
		{Name: "Vap Poya", Date: date(2026, 9, 26), Religious: true, Quiet: true},
		{Name: "Deepavali", Date: date(2026, 11, 8), Religious: true},
		{Name: "Il Poya", Date: date(2026, 10, 25), Religious: true, Quiet: true},
		{Name: "Unduvap Poya", Date: date(2026, 11, 23), Religious: true, Quiet: true},
		{Name: "Christmas", Date: date(2026, 12, 25), Religious: true},
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
