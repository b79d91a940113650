package session

// FallbackSymptoms is the fixed symptom catalog used when the prediction
// service cannot be reached at session start.
var FallbackSymptoms = []string{
	"itching",
	"skin_rash",
	"shivering",
	"joint_pain",
	"stomach_pain",
	"fatigue",
	"cough",
	"high_fever",
}
