package persona

// VoiceOption describes a prebuilt voice offered by the live service.
type VoiceOption struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Tone       string `json:"tone"`
	Gender     string `json:"gender"`
	Attributes string `json:"attributes,omitempty"`
}

var voiceOptions = []VoiceOption{
	{ID: "Zephyr", Label: "Zephyr", Tone: "Bright", Gender: "female"},
	{ID: "Puck", Label: "Puck", Tone: "Upbeat", Gender: "male", Attributes: "nasal"},
	{ID: "Charon", Label: "Charon", Tone: "Informative", Gender: "male", Attributes: "Black"},
	{ID: "Kore", Label: "Kore", Tone: "Firm", Gender: "female", Attributes: "white mid twenties-thirty"},
	{ID: "Fenrir", Label: "Fenrir", Tone: "Excitable", Gender: "male", Attributes: "white"},
	{ID: "Leda", Label: "Leda", Tone: "Youthful", Gender: "female", Attributes: "woman"},
	{ID: "Orus", Label: "Orus", Tone: "Firm", Gender: "male", Attributes: "slow"},
	{ID: "Aoede", Label: "Aoede", Tone: "Breezy", Gender: "female", Attributes: "30s woman"},
	{ID: "Callirrhoe", Label: "Callirrhoe", Tone: "Easy-going", Gender: "female", Attributes: "woman"},
	{ID: "Autonoe", Label: "Autonoe", Tone: "Bright", Gender: "female", Attributes: "young woman"},
	{ID: "Enceladus", Label: "Enceladus", Tone: "Neutral", Gender: "male", Attributes: "40s man"},
	{ID: "Iapetus", Label: "Iapetus", Tone: "Clear", Gender: "male", Attributes: "30s man"},
	{ID: "Umbriel", Label: "Umbriel", Tone: "Easy-going", Gender: "male"},
	{ID: "Algieba", Label: "Algieba", Tone: "Smooth", Gender: "male", Attributes: "40s man"},
	{ID: "Despina", Label: "Despina", Tone: "Smooth", Gender: "female", Attributes: "30s woman"},
	{ID: "Erinome", Label: "Erinome", Tone: "Clear", Gender: "female", Attributes: "30s-40s woman"},
	{ID: "Algenib", Label: "Algenib", Tone: "Gravelly", Gender: "male", Attributes: "Black"},
	{ID: "Rasalgethi", Label: "Rasalgethi", Tone: "Informative", Gender: "male", Attributes: "30s-40s"},
	{ID: "Laomedeia", Label: "Laomedeia", Tone: "Upbeat", Gender: "female"},
	{ID: "Achernar", Label: "Achernar", Tone: "Soft", Gender: "female"},
	{ID: "Alnilam", Label: "Alnilam", Tone: "Neutral", Gender: "male", Attributes: "20s man"},
	{ID: "Schedar", Label: "Schedar", Tone: "Even", Gender: "male", Attributes: "Black"},
	{ID: "Gacrux", Label: "Gacrux", Tone: "Mature", Gender: "female", Attributes: "Black"},
	{ID: "Pulcherrima", Label: "Pulcherrima", Tone: "Forward", Gender: "binary"},
	{ID: "Achird", Label: "Achird", Tone: "Friendly", Gender: "male"},
	{ID: "Zubenelgenubi", Label: "Zubenelgenubi", Tone: "Casual", Gender: "neutral"},
	{ID: "Vindemiatrix", Label: "Vindemiatrix", Tone: "Gentle", Gender: "neutral"},
	{ID: "Sadachbia", Label: "Sadachbia", Tone: "Lively", Gender: "neutral"},
	{ID: "Sadaltager", Label: "Sadaltager", Tone: "Knowledgeable", Gender: "neutral"},
	{ID: "Sulafat", Label: "Sulafat", Tone: "Warm", Gender: "neutral"},
}

// Voices returns every prebuilt voice of the service, not only the ones
// personas may pick.
func Voices() []VoiceOption {
	return append([]VoiceOption(nil), voiceOptions...)
}

func LookupVoice(id string) (VoiceOption, bool) {
	for _, v := range voiceOptions {
		if v.ID == id {
			return v, true
		}
	}
	return VoiceOption{}, false
}
