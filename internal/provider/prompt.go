package provider

import (
	"sort"
	"strings"

	"sahara/internal/domain"
)

// GeneralSystemPrompt is used when medical mode is off.
const GeneralSystemPrompt = "You are a helpful AI assistant."

const medicalSystemPromptEN = `You are the health assistant of the Sahara health app.
You give accurate, empathetic and culturally aware health information to people in Bangladesh and elsewhere.

Guidelines:
- Base answers on established medical evidence
- Be kind and patient
- Remind the user that you do not replace a qualified doctor
- Encourage seeing a healthcare professional for anything serious
- Respect the Bangladeshi cultural context
- Keep answers clear, short and practical
- Say so when you are unsure and suggest seeing a doctor
- Never diagnose and never prescribe medication
- Answer in the same language as the user's question

Use a friendly, conversational tone.`

const medicalSystemPromptBN = `আপনি Sahara হেলথ অ্যাপের একজন স্বাস্থ্য সহায়ক।
বাংলাদেশ এবং বিশ্বের ব্যবহারকারীদের সঠিক, সহানুভূতিশীল এবং সাংস্কৃতিকভাবে সংবেদনশীল স্বাস্থ্য তথ্য দিন।

নির্দেশিকা:
- প্রমাণ-ভিত্তিক স্বাস্থ্য তথ্য দিন
- সহানুভূতিশীল হন
- মনে করিয়ে দিন যে আপনি ডাক্তারের পরামর্শের বিকল্প নন
- গুরুতর সমস্যায় স্বাস্থ্যসেবা পেশাদারের কাছে যেতে উৎসাহিত করুন
- বাংলাদেশী প্রেক্ষাপটের প্রতি সংবেদনশীল থাকুন
- উত্তর স্পষ্ট, সংক্ষিপ্ত এবং কার্যকর রাখুন
- নিশ্চিত না হলে তা স্বীকার করুন এবং ডাক্তার দেখানোর পরামর্শ দিন
- কখনই রোগ নির্ণয় বা ওষুধ নির্ধারণ করবেন না
- ব্যবহারকারী যে ভাষায় প্রশ্ন করেন সেই ভাষায় উত্তর দিন

বন্ধুত্বপূর্ণ, কথোপকথনমূলক সুরে উত্তর দিন।`

var languageInstructions = map[domain.Language]string{
	domain.LanguageEnglish: "IMPORTANT: The user's message is in English. You MUST respond in English only.",
	domain.LanguageBangla:  "গুরুত্বপূর্ণ: ব্যবহারকারীর বার্তা বাংলায়। আপনাকে অবশ্যই শুধুমাত্র বাংলায় উত্তর দিতে হবে।",
}

// SystemPrompt returns the base instruction for a language and mode.
func SystemPrompt(lang domain.Language, medical bool) string {
	if !medical {
		return GeneralSystemPrompt
	}
	if lang == domain.LanguageBangla {
		return medicalSystemPromptBN
	}
	return medicalSystemPromptEN
}

// LanguageInstruction returns the explicit "respond in X" line for lang.
func LanguageInstruction(lang domain.Language) string {
	if s, ok := languageInstructions[lang]; ok {
		return s
	}
	return languageInstructions[domain.LanguageEnglish]
}

// ContextBlock renders caller-supplied context as a bullet list. Keys are
// sorted so identical input produces an identical prompt.
func ContextBlock(ctx map[string]string) string {
	if len(ctx) == 0 {
		return ""
	}
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		if strings.TrimSpace(k) != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("Additional Context:\n")
	for _, k := range keys {
		b.WriteString("- ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(ctx[k])
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// BuildSystemInstruction joins the base prompt, the language instruction and
// the optional context block.
func BuildSystemInstruction(base string, lang domain.Language, ctx map[string]string) string {
	parts := []string{base, LanguageInstruction(lang)}
	if block := ContextBlock(ctx); block != "" {
		parts = append(parts, block)
	}
	return strings.Join(parts, "\n\n")
}
