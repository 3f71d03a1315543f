package models

// DraftVersion is the current draft schema version. A stored draft with a
// different version is treated as absent and purged on read.
const DraftVersion = 1

// DraftRating is the in-progress rating block for one selected lecturer.
// Nil values are simply unanswered.
type DraftRating struct {
	Q1Tajuk        *int  `json:"q1_tajuk"`
	Q2Ilmu         *int  `json:"q2_ilmu"`
	Q3Penyampaian  *int  `json:"q3_penyampaian"`
	Q4Masa         *int  `json:"q4_masa"`
	Recommendation *bool `json:"recommendation"`
}

// DraftEvaluatorInfo mirrors the form's respondent block with raw string
// values, since the draft captures unvalidated input.
type DraftEvaluatorInfo struct {
	Nama   string `json:"nama"`
	Umur   string `json:"umur"`
	Alamat string `json:"alamat"`
	Tarikh string `json:"tarikh"`
}

// Draft is the ephemeral, not-yet-submitted form state.
type Draft struct {
	Version           int                    `json:"version"`
	Timestamp         int64                  `json:"timestamp"`
	EvaluatorInfo     DraftEvaluatorInfo     `json:"evaluator_info"`
	SelectedLecturers []string               `json:"selected_lecturers"`
	Ratings           map[string]DraftRating `json:"ratings"`
	KomenPenceramah   string                 `json:"komen_penceramah"`
	CadanganMasjid    string                 `json:"cadangan_masjid"`
}
