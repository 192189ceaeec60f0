package seed

var firstNames = []string{
	"Amara", "Kwame", "Fatima", "Oluwole", "Ngozi", "Ibrahim", "Zainab", "Kofi",
	"Aisha", "Emmanuel", "Blessing", "Chidi", "Halima", "Yusuf", "Grace", "Samuel",
	"Mariama", "Abdullahi", "Comfort", "Daniel", "Hadiza", "Joseph", "Kemi", "Hassan",
	"Adaeze", "Mohammed", "Florence", "Usman", "Rita", "Musa", "Chioma", "Ahmed",
	"Patience", "Suleiman", "Victoria", "Isa", "Joy", "Aliyu", "Mercy", "Tunde",
	"Funke", "Bello", "Sandra", "Yakubu", "Esther", "Garba", "Helen", "Idris",
	"Lilian", "Danladi",
}

var lastNames = []string{
	"Okonkwo", "Mensah", "Ibrahim", "Adeyemi", "Nwosu", "Bello", "Osei", "Mohammed",
	"Eze", "Abubakar", "Olumide", "Danjuma", "Asante", "Yusuf", "Nnamdi", "Hassan",
	"Boateng", "Sani", "Okoro", "Musa", "Adjei", "Lawal", "Chukwu", "Abdullahi",
	"Owusu", "Garba", "Nnaji", "Idris", "Amponsah", "Aliyu", "Obi", "Yakubu",
	"Koffi", "Suleiman", "Agu", "Ismail", "Darko", "Balogun", "Ugwu", "Umar",
	"Asiedu", "Afolabi", "Nwachukwu", "Nuhu", "Gyasi", "Olawale", "Obiora", "Shehu",
	"Appiah", "Adebayo",
}

type location struct {
	name   string
	region string
}

var locations = []location{
	{"Kano", "Northern Nigeria"},
	{"Kaduna", "Northern Nigeria"},
	{"Lagos", "Southwest Nigeria"},
	{"Ibadan", "Southwest Nigeria"},
	{"Enugu", "Southeast Nigeria"},
	{"Port Harcourt", "Niger Delta"},
	{"Accra", "Greater Accra, Ghana"},
	{"Kumasi", "Ashanti, Ghana"},
	{"Tamale", "Northern Ghana"},
	{"Nairobi", "Central Kenya"},
	{"Mombasa", "Coastal Kenya"},
	{"Kisumu", "Western Kenya"},
}

var loanPurposes = []string{
	"Seed purchase", "Equipment upgrade", "Irrigation system", "Land expansion",
	"Fertilizer procurement", "Storage facility", "Transportation", "Harvest labor",
}

var loanTerms = []int{6, 12, 18, 24}

var recommendationsByHealth = map[string][]string{
	"healthy": {
		"Maintain current fertilizer schedule",
		"Plan harvest logistics for the expected yield",
		"Continue weekly scouting",
	},
	"moderate": {
		"Apply nitrogen top-dressing within 7 days",
		"Check irrigation coverage on the lower section",
		"Scout for early pest activity",
		"Re-scan in two weeks to confirm recovery",
	},
	"unhealthy": {
		"Inspect the field for pest damage immediately",
		"Apply targeted pesticide to affected rows",
		"Increase irrigation frequency",
		"Take soil samples for nutrient analysis",
		"Consult an extension officer before the next input purchase",
	},
}
