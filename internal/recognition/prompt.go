package recognition

// BuildPrompt returns the extraction instruction for identity and education
// documents. language is the interface language hint passed to the model.
func BuildPrompt(language string) string {
	if language == "" {
		language = "ru"
	}
	return `Проанализируй документ (Паспорт РФ, СНИЛС, Диплом или Свидетельство о квалификации) и извлеки данные в строгом JSON.
Язык интерфейса: ` + language + `.
Структура:
{
  "doc_type": "passport" | "snils" | "diploma" | "certificate" | "unknown",
  "surname": "...",
  "name": "...",
  "patronymic": "...",
  "birth_date": "DD.MM.YYYY",
  "number": "...",
  "series": "...",
  "issue_date": "DD.MM.YYYY",
  "issuer": "...",
  "code": "...",
  "snils_number": "...",
  "registration_place": "...",
  "diploma_series": "...",
  "diploma_number": "...",
  "diploma_reg_number": "...",
  "diploma_university_name": "...",
  "diploma_university_location": "...",
  "diploma_specialty": "...",
  "diploma_specialization": "...",
  "diploma_qualification": "...",
  "diploma_qualification_date": "DD.MM.YYYY",
  "cert_reg_number": "...",
  "cert_issue_date": "DD.MM.YYYY",
  "cert_expiry_date": "DD.MM.YYYY",
  "cert_center_name": "...",
  "cert_center_location": "..."
}
Верни ТОЛЬКО чистый JSON.`
}
