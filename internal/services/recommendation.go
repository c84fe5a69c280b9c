package services

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/elderlycare/elderlycare-backend/internal/models"
	"github.com/elderlycare/elderlycare-backend/internal/storage"
)

// RecommendationService renders templated health and first-aid text for a
// profile. Results are cached in the store for 24 hours, keyed by the profile
// content, so an unchanged profile never re-renders.
type RecommendationService struct {
	store storage.Store
}

func NewRecommendationService(store storage.Store) *RecommendationService {
	return &RecommendationService{store: store}
}

type recommendationInput struct {
	Name            string
	Age             int
	BMI             string
	BloodGroup      string
	DietPreference  string
	MedicalHistory  string
	Allergies       string
	Medications     string
	CurrentSymptoms string
}

var healthTemplate = template.Must(template.New("health").Parse(`Personalized Health Recommendations for {{.Name}}

General Guidance
1. Age {{.Age}}: schedule a routine check-up at least twice a year.
2. BMI {{.BMI}}: discuss diet and activity targets with your physician.
3. Diet preference: {{.DietPreference}}. Keep meals light, regular, and hydrating.

Condition Management
{{if .MedicalHistory}}- Known conditions: {{.MedicalHistory}}. Take prescribed medication on schedule and track symptoms daily.
{{else}}- No chronic conditions on record. Maintain preventive screenings.
{{end}}{{if .Medications}}- Current medications: {{.Medications}}. Review interactions with a pharmacist before adding any new medicine.
{{end}}{{if .Allergies}}- Allergies: {{.Allergies}}. Carry an allergy card and avoid known triggers.
{{end}}
Daily Habits
1. Walk 20-30 minutes daily if mobility allows.
2. Sleep 7-8 hours; keep a consistent bedtime.
3. Stay socially active and keep emergency contacts reachable.`))

var firstAidTemplate = template.Must(template.New("firstaid").Parse(`Emergency First Aid Instructions for {{.Name}} (Age {{.Age}})

Before You Act
1. Check responsiveness and breathing first.
2. Call emergency services if unresponsive or breathing is abnormal.
3. Blood group: {{if .BloodGroup}}{{.BloodGroup}}{{else}}Unknown{{end}} - share this with responders.

Known Risks
{{if .Allergies}}- ALLERGIES: {{.Allergies}}. Do not administer anything containing these.
{{else}}- No known allergies on record.
{{end}}{{if .MedicalHistory}}- Conditions: {{.MedicalHistory}}. Mention these to emergency responders immediately.
{{end}}{{if .Medications}}- Medications in use: {{.Medications}}. Hand the list to paramedics.
{{end}}{{if .CurrentSymptoms}}- Recent symptoms: {{.CurrentSymptoms}}.
{{end}}
While Waiting for Help
1. Keep the person still and comfortable; do not give food or water if drowsy.
2. Loosen tight clothing and keep airways clear.
3. If trained, be ready to perform CPR.
4. Note the time symptoms started - responders will ask.`))

// Generate returns the recommendation text for the given kind ("health" or
// "firstaid"), serving from cache when a fresh entry exists.
func (s *RecommendationService) Generate(profile *models.MedicalProfile, kind string) (string, error) {
	key := cacheKey(profile, kind)

	if cached, err := s.store.GetCachedRecommendation(key, models.RecommendationCacheTTL); err == nil {
		return cached.Value, nil
	}

	var tmpl *template.Template
	switch kind {
	case models.RecommendationHealth:
		tmpl = healthTemplate
	case models.RecommendationFirstAid:
		tmpl = firstAidTemplate
	default:
		return "", fmt.Errorf("unknown recommendation kind: %q", kind)
	}

	input := recommendationInput{
		Name:            profile.Name,
		Age:             ageFromDOB(profile.DOB),
		BMI:             bmi(profile.Height, profile.Weight),
		BloodGroup:      profile.BloodGroup,
		DietPreference:  profile.DietPreference,
		MedicalHistory:  joinWithOther(profile.MedicalHistory, profile.MedicalHistoryOther),
		Allergies:       joinWithOther(profile.Allergies, profile.AllergiesOther),
		Medications:     joinWithOther(profile.Medications, profile.MedicationsOther),
		CurrentSymptoms: joinWithOther(profile.CurrentSymptoms, profile.CurrentSymptomsOther),
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, input); err != nil {
		return "", fmt.Errorf("failed to render recommendations: %w", err)
	}
	text := b.String()

	if err := s.store.PutCachedRecommendation(&models.RecommendationCache{
		CacheKey: key,
		Kind:     kind,
		Value:    text,
	}); err != nil {
		// Cache write failure is not fatal; the text is still usable
		return text, nil
	}

	return text, nil
}

func cacheKey(profile *models.MedicalProfile, kind string) string {
	raw, _ := json.Marshal(profile)
	sum := sha256.Sum256(raw)
	return fmt.Sprintf("%s_%x", kind, sum[:16])
}

func ageFromDOB(dob time.Time) int {
	if dob.IsZero() {
		return 0
	}
	now := time.Now()
	years := now.Year() - dob.Year()
	if now.YearDay() < dob.YearDay() {
		years--
	}
	return years
}

func bmi(heightCm, weightKg float64) string {
	if heightCm <= 0 || weightKg <= 0 {
		return "unknown"
	}
	m := heightCm / 100
	return fmt.Sprintf("%.1f", weightKg/(m*m))
}

func joinWithOther(items []string, other string) string {
	parts := make([]string, 0, len(items)+1)
	for _, it := range items {
		if strings.TrimSpace(it) != "" {
			parts = append(parts, it)
		}
	}
	if strings.TrimSpace(other) != "" {
		parts = append(parts, other)
	}
	return strings.Join(parts, ", ")
}
