package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masjid-almuttaqin/kuliah-api/internal/models"
)

func session(week int, day, lectureType string, lecturer *models.Lecturer) models.LectureSession {
	s := models.LectureSession{
		Minggu:      week,
		Hari:        day,
		JenisKuliah: lectureType,
		Aktif:       true,
		Lecturer:    lecturer,
	}
	if lecturer != nil {
		s.LecturerID = strPtr(lecturer.ID)
	}
	return s
}

func TestGroupSessionsByWeek_AllFiveWeeksPresent(t *testing.T) {
	groups := GroupSessionsByWeek(nil)
	require.Len(t, groups, 5)
	for i, g := range groups {
		assert.Equal(t, i+1, g.Week)
		assert.Empty(t, g.Sessions)
		assert.Empty(t, g.Lecturers)
	}
}

func TestGroupSessionsByWeek_BucketsAndCollectsLecturers(t *testing.T) {
	hassan := &models.Lecturer{ID: "lec-1", Nama: "Ustaz Hassan"}
	sessions := []models.LectureSession{
		session(1, "Isnin", models.LectureTypeSubuh, hassan),
		session(3, "Jumaat", models.LectureTypeJumaat, nil),
		session(0, "Isnin", models.LectureTypeSubuh, nil),
		session(6, "Isnin", models.LectureTypeSubuh, nil),
	}

	groups := GroupSessionsByWeek(sessions)
	require.Len(t, groups, 5)

	assert.Len(t, groups[0].Sessions, 1)
	assert.Contains(t, groups[0].Lecturers, "lec-1")
	assert.Len(t, groups[2].Sessions, 1)
	// Out-of-range weeks are dropped.
	assert.Empty(t, groups[1].Sessions)
	assert.Empty(t, groups[3].Sessions)
	assert.Empty(t, groups[4].Sessions)
}

func TestGroupSessionsByWeek_SortsByDayThenType(t *testing.T) {
	sessions := []models.LectureSession{
		session(1, "Ahad", models.LectureTypeMaghrib, nil),
		session(1, "Isnin", models.LectureTypeMaghrib, nil),
		session(1, "Isnin", models.LectureTypeSubuh, nil),
		session(1, "Khamis", models.LectureTypeSubuh, nil),
	}

	groups := GroupSessionsByWeek(sessions)
	week1 := groups[0].Sessions
	require.Len(t, week1, 4)

	assert.Equal(t, "Isnin", week1[0].Hari)
	assert.Equal(t, models.LectureTypeSubuh, week1[0].JenisKuliah)
	assert.Equal(t, "Isnin", week1[1].Hari)
	assert.Equal(t, models.LectureTypeMaghrib, week1[1].JenisKuliah)
	assert.Equal(t, "Khamis", week1[2].Hari)
	assert.Equal(t, "Ahad", week1[3].Hari)
}

func TestHasRequiredLecturerInfo(t *testing.T) {
	hassan := &models.Lecturer{ID: "lec-1", Nama: "Ustaz Hassan"}
	assert.True(t, HasRequiredLecturerInfo(session(1, "Isnin", models.LectureTypeSubuh, hassan)))
	assert.False(t, HasRequiredLecturerInfo(session(1, "Isnin", models.LectureTypeSubuh, nil)))
	assert.False(t, HasRequiredLecturerInfo(session(1, "Isnin", models.LectureTypeSubuh, &models.Lecturer{ID: "x"})))
}

func TestLecturerCardData(t *testing.T) {
	gambar := "https://example.com/hassan.jpg"
	hassan := &models.Lecturer{ID: "lec-1", Nama: "Ustaz Hassan", GambarURL: &gambar}

	card := LecturerCardData(session(1, "Isnin", models.LectureTypeSubuh, hassan))
	assert.Equal(t, "Ustaz Hassan", card.Nama)
	require.NotNil(t, card.GambarURL)
	assert.Equal(t, gambar, *card.GambarURL)

	fallback := LecturerCardData(session(2, "Selasa", models.LectureTypeMaghrib, nil))
	assert.Equal(t, "Penceramah", fallback.Nama)
	assert.Nil(t, fallback.GambarURL)
	assert.Equal(t, models.LectureTypeMaghrib, fallback.JenisKuliah)
}
