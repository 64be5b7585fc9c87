package extractor

import (
	"context"
	"fmt"
	"time"

	"docsummary/internal/domain"
)

const (
	simulatedPDFDelay   = 1500 * time.Millisecond
	simulatedDOCXDelay  = 1200 * time.Millisecond
	simulatedImageDelay = 2000 * time.Millisecond
)

// Simulated is a stand-in extractor: after Delay it returns canned text that
// only names the source file. Swap it for PDF, DOCX or OCR from NewNativeSet
// to get real content.
type Simulated struct {
	Kind  domain.FileKind
	Delay time.Duration
}

func NewSimulatedPDF() *Simulated {
	return &Simulated{Kind: domain.FileKindPDF, Delay: simulatedPDFDelay}
}

func NewSimulatedDOCX() *Simulated {
	return &Simulated{Kind: domain.FileKindDOCX, Delay: simulatedDOCXDelay}
}

func NewSimulatedImage() *Simulated {
	return &Simulated{Kind: domain.FileKindImage, Delay: simulatedImageDelay}
}

func (s *Simulated) Extract(ctx context.Context, file domain.UploadedFile) (string, error) {
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	return SimulatedText(s.Kind, file.Name)
}

// SimulatedText returns the placeholder produced for a file of the given kind.
func SimulatedText(kind domain.FileKind, fileName string) (string, error) {
	switch kind {
	case domain.FileKindPDF:
		return fmt.Sprintf(simulatedPDFTemplate, fileName), nil
	case domain.FileKindDOCX:
		return fmt.Sprintf(simulatedDOCXTemplate, fileName), nil
	case domain.FileKindImage:
		return fmt.Sprintf(simulatedImageTemplate, fileName), nil
	default:
		return "", fmt.Errorf("no simulated content for %q", kind)
	}
}

const simulatedPDFTemplate = `[Simulert PDF-innhold fra %s]

Dette er en simulering av tekstinnhold hentet fra en PDF-fil. I en ekte implementering ville dette være den faktiske teksten fra PDF-dokumentet.

PDF-filer inneholder ofte formatert tekst, bilder og tabeller som kan ekstraheres og behandles av AI for sammendrag.`

const simulatedDOCXTemplate = `[Simulert DOCX-innhold fra %s]

Dette er en simulering av tekstinnhold hentet fra et Word-dokument. I en ekte implementering ville dette være den faktiske teksten fra DOCX-filen.

Word-dokumenter kan inneholde rik formatering, tabeller, bilder og annet innhold som kan ekstraheres for AI-behandling.`

const simulatedImageTemplate = `[Simulert OCR-gjenkjenning fra %s]

Dette er en simulering av tekst hentet fra et bilde ved hjelp av OCR (Optical Character Recognition).

I en ekte implementering ville systemet:
- Analysere bildet for å identifisere tekst
- Bruke maskinlæring for å gjenkjenne bokstaver og ord
- Konvertere visuell tekst til redigerbar tekst
- Håndtere forskjellige fonter og tekststørrelser

Eksempel på gjenkjent tekst fra bildet:
"Dette er et eksempel på tekst som kunne vært gjenkjent i et bilde. OCR-teknologi kan lese tekst fra skjermbilder, dokumenter, skilt, og andre bilder som inneholder skriftlig informasjon."

OCR-kvaliteten avhenger av:
- Bildekvalitet og oppløsning
- Kontrast mellom tekst og bakgrunn
- Fonttype og tekststørrelse
- Bildevinkel og belysning

Denne simulerte OCR-teksten viser hvordan AI kan ekstraktere og behandle tekstinnhold fra bilder for videre sammendrag og analyse.`
