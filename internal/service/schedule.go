package service

import (
	"sort"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
)

// GroupSessionsByWeek buckets sessions into weeks 1..5. All five weeks
// are always present, even when empty. Sessions outside that range are
// dropped. Within a week, sessions sort by Malay day order and, within
// the same day, Subuh before Maghrib.
func GroupSessionsByWeek(sessions []models.LectureSession) []models.WeekGroup {
	groups := make([]models.WeekGroup, 5)
	for i := range groups {
		groups[i] = models.WeekGroup{
			Week:      i + 1,
			Sessions:  make([]models.LectureSession, 0),
			Lecturers: make(map[string]models.Lecturer),
		}
	}

	for _, s := range sessions {
		if s.Minggu < 1 || s.Minggu > 5 {
			continue
		}
		g := &groups[s.Minggu-1]
		g.Sessions = append(g.Sessions, s)
		if s.Lecturer != nil {
			g.Lecturers[s.Lecturer.ID] = *s.Lecturer
		}
	}

	for i := range groups {
		sessions := groups[i].Sessions
		sort.SliceStable(sessions, func(a, b int) bool {
			dayA := models.DayOrder[sessions[a].Hari]
			dayB := models.DayOrder[sessions[b].Hari]
			if dayA != dayB {
				return dayA < dayB
			}
			return sessions[a].JenisKuliah == models.LectureTypeSubuh &&
				sessions[b].JenisKuliah != models.LectureTypeSubuh
		})
	}

	return groups
}

// HasRequiredLecturerInfo reports whether a session can be rendered as a
// full schedule card.
func HasRequiredLecturerInfo(session models.LectureSession) bool {
	return session.Lecturer != nil &&
		session.Lecturer.Nama != "" &&
		session.JenisKuliah != "" &&
		session.Hari != ""
}

// LecturerCardData builds the public card for one session, falling back
// to the generic "Penceramah" label when the lecturer is missing.
func LecturerCardData(session models.LectureSession) models.LecturerCard {
	card := models.LecturerCard{
		Nama:        "Penceramah",
		JenisKuliah: session.JenisKuliah,
		Hari:        session.Hari,
	}
	if session.Lecturer != nil {
		if session.Lecturer.Nama != "" {
			card.Nama = session.Lecturer.Nama
		}
		card.GambarURL = session.Lecturer.GambarURL
	}
	return card
}
