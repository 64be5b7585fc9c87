package summarizer

import "strings"

const (
	systemPrompt = "Du er en norsk tekstoppsummerer. " +
		"Svar som JSON med nøklene: summary, keyPoints[], wordCount, originalLength."

	unknownFileName = "Ukjent"

	instruction = "Lag et kort sammendrag (120–180 ord) og 4 punktliste med nøkkelpunkter."
)

func BuildPrompt(input Input) Prompt {
	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		fileName = unknownFileName
	}

	userPromptBuilder := strings.Builder{}
	userPromptBuilder.WriteString("Fil: ")
	userPromptBuilder.WriteString(fileName)
	userPromptBuilder.WriteString("\nTekst:\n")
	userPromptBuilder.WriteString(input.Content)
	userPromptBuilder.WriteString("\n\n")
	userPromptBuilder.WriteString(instruction)

	return Prompt{
		System: systemPrompt,
		User:   userPromptBuilder.String(),
	}
}
