package live

import "encoding/json"

type wirePart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *wireInline `json:"inlineData,omitempty"`
}

type wireInline struct {
	MIMEType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

type wireContent struct {
	Role  string     `json:"role,omitempty"`
	Parts []wirePart `json:"parts"`
}

type wireVoice struct {
	PrebuiltVoiceConfig struct {
		VoiceName string `json:"voiceName"`
	} `json:"prebuiltVoiceConfig"`
}

type wireSetup struct {
	Model            string `json:"model"`
	GenerationConfig struct {
		ResponseModalities []Modality `json:"responseModalities"`
		SpeechConfig       struct {
			VoiceConfig wireVoice `json:"voiceConfig"`
		} `json:"speechConfig"`
	} `json:"generationConfig"`
	SystemInstruction wireContent `json:"systemInstruction"`
}

type wireClientContent struct {
	Turns        []wireContent `json:"turns"`
	TurnComplete bool          `json:"turnComplete"`
}

type wireRealtimeInput struct {
	MediaChunks []AudioChunk `json:"mediaChunks"`
}

type clientMessage struct {
	Setup         *wireSetup         `json:"setup,omitempty"`
	ClientContent *wireClientContent `json:"clientContent,omitempty"`
	RealtimeInput *wireRealtimeInput `json:"realtimeInput,omitempty"`
}

type serverMessage struct {
	SetupComplete *struct{} `json:"setupComplete,omitempty"`
	ServerContent *struct {
		ModelTurn    *wireContent `json:"modelTurn,omitempty"`
		TurnComplete bool         `json:"turnComplete,omitempty"`
		Interrupted  bool         `json:"interrupted,omitempty"`
	} `json:"serverContent,omitempty"`
	ToolCall json.RawMessage `json:"toolCall,omitempty"`
}

func newSetup(cfg Config) *wireSetup {
	s := &wireSetup{Model: cfg.Model}
	s.GenerationConfig.ResponseModalities = cfg.Modalities
	if len(s.GenerationConfig.ResponseModalities) == 0 {
		s.GenerationConfig.ResponseModalities = []Modality{ModalityAudio}
	}
	s.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName = string(cfg.Voice)
	s.SystemInstruction = wireContent{Parts: []wirePart{{Text: cfg.SystemInstruction}}}
	return s
}
