// Package doctors holds the city-keyed specialist directory and the
// recommendation logic that picks doctors by location and condition
// severity. The directory is a curated in-memory dataset; a hosted
// database would replace it without changing the API.
package doctors

import (
	"sort"
	"strings"

	"github.com/ovacare/pcos-assistant/pkg/model"
)

// Recommendation is the full referral payload built for a submission
type Recommendation struct {
	PrimaryDoctors   []model.Specialist `json:"primary_doctors"`
	AllDoctorsInCity []model.Specialist `json:"all_doctors_in_city"`
	NearbyCities     []string           `json:"nearby_cities"`
	Helplines        map[string]string  `json:"helplines"`
	UrgentMessage    string             `json:"urgent_care_message"`
	BookingTips      []string           `json:"booking_tips"`
	QuestionsToAsk   []string           `json:"questions_to_ask"`
}

var directory = map[string][]model.Specialist{
	"Hyderabad": {
		{Name: "Dr. Sunita Rao", Specialty: "Gynecologist & PCOS Specialist", Hospital: "Apollo Hospital", Phone: "+91 40 3333 1234", City: "Hyderabad", Rating: 4.8},
		{Name: "Dr. Rajeev Kumar", Specialty: "Endocrinologist", Hospital: "Care Hospitals", Phone: "+91 40 6165 6789", City: "Hyderabad", Rating: 4.7},
		{Name: "Dr. Priya Reddy", Specialty: "Gynecologist", Hospital: "Yashoda Hospitals", Phone: "+91 40 4444 5678", City: "Hyderabad", Rating: 4.6},
	},
	"Vijayawada": {
		{Name: "Dr. Lakshmi Devi", Specialty: "Gynecologist & Fertility Specialist", Hospital: "Manipal Hospital", Phone: "+91 866 2429 999", City: "Vijayawada", Rating: 4.7},
		{Name: "Dr. Srinivas Rao", Specialty: "Endocrinologist", Hospital: "Ramesh Hospitals", Phone: "+91 866 6699 000", City: "Vijayawada", Rating: 4.5},
	},
	"Bangalore": {
		{Name: "Dr. Meera Sharma", Specialty: "Gynecologist & PCOS Specialist", Hospital: "Fortis Hospital", Phone: "+91 80 6621 4444", City: "Bangalore", Rating: 4.9},
		{Name: "Dr. Anand Krishnan", Specialty: "Endocrinologist", Hospital: "Columbia Asia Hospital", Phone: "+91 80 6692 6565", City: "Bangalore", Rating: 4.7},
	},
	"Chennai": {
		{Name: "Dr. Kavitha Menon", Specialty: "Gynecologist", Hospital: "Apollo Hospital", Phone: "+91 44 2829 3333", City: "Chennai", Rating: 4.8},
		{Name: "Dr. Ramesh Babu", Specialty: "Endocrinologist", Hospital: "MIOT Hospital", Phone: "+91 44 4200 2288", City: "Chennai", Rating: 4.6},
	},
	"Delhi": {
		{Name: "Dr. Anjali Kapoor", Specialty: "Gynecologist & Fertility Expert", Hospital: "Max Hospital", Phone: "+91 11 2651 5050", City: "Delhi", Rating: 4.9},
		{Name: "Dr. Vikram Singh", Specialty: "Endocrinologist", Hospital: "Fortis Hospital", Phone: "+91 11 4277 6222", City: "Delhi", Rating: 4.7},
	},
	"Mumbai": {
		{Name: "Dr. Sneha Patil", Specialty: "Gynecologist & PCOS Specialist", Hospital: "Lilavati Hospital", Phone: "+91 22 2640 0000", City: "Mumbai", Rating: 4.8},
		{Name: "Dr. Arun Deshmukh", Specialty: "Endocrinologist", Hospital: "Hinduja Hospital", Phone: "+91 22 2445 1515", City: "Mumbai", Rating: 4.9},
	},
	"Pune": {
		{Name: "Dr. Vaishali Joshi", Specialty: "Gynecologist", Hospital: "Ruby Hall Clinic", Phone: "+91 20 6645 8888", City: "Pune", Rating: 4.6},
		{Name: "Dr. Manish Kulkarni", Specialty: "Endocrinologist", Hospital: "Sahyadri Hospital", Phone: "+91 20 6700 6000", City: "Pune", Rating: 4.5},
	},
}

var proximity = map[string][]string{
	"Vijayawada": {"Hyderabad", "Chennai"},
	"Hyderabad":  {"Bangalore", "Chennai"},
	"Bangalore":  {"Chennai", "Hyderabad"},
	"Chennai":    {"Bangalore", "Hyderabad"},
	"Pune":       {"Mumbai", "Bangalore"},
	"Mumbai":     {"Pune", "Bangalore"},
	"Delhi":      {"Bangalore", "Chennai"},
}

var defaultNearby = []string{"Hyderabad", "Bangalore", "Chennai"}

var helplines = map[string]string{
	"National Health Helpline": "1800-180-1104",
	"Women's Helpline":         "1091",
	"Apollo Hospitals Hotline": "1066",
}

// Recommend builds the referral payload for a city and severity level.
// Unknown cities still get nearby alternatives and helplines.
func Recommend(city string, severity model.IndicatorLevel, symptoms []string) Recommendation {
	city = normalizeCity(city)
	inCity := directory[city]

	nearby, ok := proximity[city]
	if !ok {
		nearby = defaultNearby
	}

	primary := filterBySeverity(inCity, severity, symptoms)
	if len(primary) < 2 {
		for _, nc := range nearby {
			candidates := directory[nc]
			if len(candidates) > 0 {
				primary = append(primary, filterBySeverity(candidates[:1], severity, symptoms)...)
			}
			if len(primary) >= 2 {
				break
			}
		}
	}
	if len(primary) > 3 {
		primary = primary[:3]
	}

	return Recommendation{
		PrimaryDoctors:   primary,
		AllDoctorsInCity: inCity,
		NearbyCities:     nearby,
		Helplines:        helplines,
		UrgentMessage:    urgentMessage(severity),
		BookingTips:      bookingTips,
		QuestionsToAsk:   questionsToAsk,
	}
}

// Cities lists every city covered by the directory, sorted
func Cities() []string {
	cities := make([]string, 0, len(directory))
	for city := range directory {
		cities = append(cities, city)
	}
	sort.Strings(cities)
	return cities
}

// SearchByName finds doctors whose name contains the query, case
// insensitively, across all cities
func SearchByName(name string) []model.Specialist {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return nil
	}

	var results []model.Specialist
	for _, city := range Cities() {
		for _, doc := range directory[city] {
			if strings.Contains(strings.ToLower(doc.Name), query) {
				results = append(results, doc)
			}
		}
	}
	return results
}

// filterBySeverity keeps specialists and endocrinologists when the case
// calls for one, then orders by rating
func filterBySeverity(docs []model.Specialist, severity model.IndicatorLevel, symptoms []string) []model.Specialist {
	needsSpecialist := severity == model.LevelHigh || hasSymptom(symptoms, model.SymptomInfertility)

	var result []model.Specialist
	for _, doc := range docs {
		if needsSpecialist &&
			!strings.Contains(doc.Specialty, "Specialist") &&
			!strings.Contains(doc.Specialty, "Endocrinologist") {
			continue
		}
		result = append(result, doc)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Rating > result[j].Rating
	})
	return result
}

func hasSymptom(symptoms []string, tag string) bool {
	for _, s := range symptoms {
		if s == tag {
			return true
		}
	}
	return false
}

// normalizeCity title-cases the input so "hyderabad" and "HYDERABAD" both
// match the directory key
func normalizeCity(city string) string {
	city = strings.TrimSpace(strings.ToLower(city))
	if city == "" {
		return ""
	}
	return strings.ToUpper(city[:1]) + city[1:]
}

func urgentMessage(severity model.IndicatorLevel) string {
	switch severity {
	case model.LevelHigh:
		return "IMPORTANT: Based on your symptoms, please schedule an appointment within 1-2 weeks. " +
			"If experiencing severe pain or heavy bleeding, visit emergency care immediately."
	case model.LevelModerate:
		return "RECOMMENDED: Schedule a consultation within 4-6 weeks to discuss your symptoms and get proper diagnosis."
	default:
		return "Your symptoms appear manageable. Schedule a routine checkup within 2-3 months for monitoring."
	}
}

var bookingTips = []string{
	"Call during morning hours (9-11 AM) for better availability",
	"Mention 'PCOS consultation' when booking to get adequate time slot",
	"Prepare your symptom history and menstrual cycle data before visit",
	"Ask if they need any prior blood tests or ultrasound",
	"Check if the doctor accepts your health insurance",
	"Request for first available appointment for urgent cases",
}

var questionsToAsk = []string{
	"Do I need hormone level tests (LH, FSH, testosterone)?",
	"Should I get an ultrasound to check for ovarian cysts?",
	"What lifestyle changes would you recommend?",
	"Are there medications that might help regulate my cycle?",
	"Should I see a nutritionist or endocrinologist?",
	"What are my options if I'm trying to conceive?",
	"How often should I come for follow-up appointments?",
	"Are there any warning signs I should watch for?",
}
