package constants

// Method tags the provider path that produced a successful extraction.
type Method string

// Stable values (emitted verbatim in the "method" output key).
const (
	MethodOCRAPI         Method = "ocr_api"         // dedicated OCR service, raw markdown
	MethodChatCompletion Method = "chat_completion" // primary chat provider, schema-guided
	MethodOpenAIFallback Method = "openai_fallback" // secondary chat provider
)

// Reserved output keys. Extracted fields must never use them.
const (
	KeyMethod      = "method"
	KeyError       = "error"
	KeyRawResponse = "raw_response"
)

const (
	DefaultSystemPrompt = "Extract structured data from documents. Return valid JSON only."
	DefaultSchema       = `{"text": ""}`
)
