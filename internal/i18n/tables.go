package i18n

var tables = map[Language]map[string]string{
	English: {
		"app.title":             "⬡ DECKHAND · Pitch Deck Generator",
		"phase.label":           "Current phase",
		"phase.uploading":       "Phase 1: Document Uploading",
		"phase.selecting":       "Phase 2: Slide Selection",
		"phase.generating":      "Phase 3: Content Generating",
		"phase.previewing":      "Phase 4: Preview Slide",
		"phase.exported":        "Phase 5: Exported",
		"phase.unknown":         "Unknown Phase",
		"language.label":        "Language",
		"language.en":           "English",
		"language.no":           "Norwegian",
		"language.success":      "Language successfully set",
		"editmode.label":        "Edit Mode",
		"editmode.structured":   "Structured Editing",
		"editmode.guided":       "Guided Feedback",
		"landing.heading":       "Pitch Deck Generator AI",
		"landing.prompt":        "Enter your project name:",
		"landing.placeholder":   "Enter Project Name",
		"landing.creating":      "Creating project…",
		"landing.created":       "Project %q created",
		"upload.heading":        "Upload Document",
		"upload.prompt":         "Upload Company Document (optional). Separate paths with commas.",
		"upload.placeholder":    "./pitch.pdf, ./financials.xlsx",
		"upload.uploading":      "Uploading documents…",
		"upload.success":        "Successfully uploaded: %s",
		"upload.hint":           "enter=upload  tab=skip to slide selection",
		"selection.required":    "Required Slides",
		"selection.optional":    "Optional Slides",
		"selection.hint":        "space=toggle  enter=confirm slide selection",
		"selection.redirect":    "No analyzed project yet · returning to document upload",
		"generation.heading":    "Slide Content",
		"generation.progress":   "Generating slide content … (%d/%d)",
		"generation.complete":   "Generation complete · %d of %d slides ready",
		"generation.pending":    "waiting",
		"generation.running":    "generating",
		"generation.done":       "done",
		"generation.failed":     "failed",
		"results.hint":          "e=edit  u=revert  m=modify section  p=go to preview",
		"results.edited":        "(edited)",
		"results.empty":         "No slides were generated.",
		"edit.prompt":           "Enter your edit request here...",
		"edit.hint":             "ctrl+s=save  esc=cancel",
		"edit.pending":          "Applying edit to %s…",
		"edit.saved":            "Updated %s",
		"edit.reverted":         "Reverted %s to the generated text",
		"preview.heading":       "Preview",
		"preview.hint":          "x=export as PDF  d=delete project  b=back to editing",
		"preview.served":        "Preview available at %s",
		"preview.empty":         "No slides have been generated yet.",
		"preview.edited":        "Edited",
		"export.pending":        "Exporting…",
		"export.success":        "Download saved to %s",
		"delete.pending":        "Deleting…",
		"delete.success":        "Project with ID %q deleted successfully.",
		"keys.global":           "ctrl+l=language  ctrl+t=edit mode  ctrl+c=quit",
		"error.creation":        "Could not create the project: %s",
		"error.creation.name":   "Project ID is required",
		"error.upload":          "Upload failed: %s",
		"error.upload.empty":    "Please select at least one file to upload.",
		"error.generation_item": "Slide %s could not be generated: %s",
		"error.edit":            "Failed to edit slide: %s",
		"error.edit.busy":       "Another edit is still in progress.",
		"error.edit.empty":      "Describe the change you want first.",
		"error.edit.stale":      "The slide changed while the edit was pending.",
		"error.slide.unknown":   "That slide is not part of the generated deck.",
		"error.deletion":        "Error: %s",
		"error.missing":         "Authorization token is missing.",
		"error.export":          "Failed to download PDF. Please try again.",
		"error.language":        "Failed to set language",
		"error.generic":         "Error: %s",
		"slide.title":           "Title Slide",
		"slide.introduction":    "Introduction",
		"slide.problem":         "Problem Statement",
		"slide.solution":        "Solution",
		"slide.market":          "Market Opportunity",
		"slide.ask":             "Ask",
		"slide.team":            "Meet the Team",
		"slide.experience":      "Our Experience with the Problem",
		"slide.revenue":         "Revenue Model",
		"slide.go_to_market":    "Go-To-Market Strategy",
		"slide.demo":            "Demo",
		"slide.technology":      "Technology",
		"slide.pipeline":        "Product Development Pipeline",
		"slide.expansion":       "Product Expansion",
		"slide.uniqueness":      "Uniqueness & Protectability",
		"slide.competition":     "Competitive Landscape",
		"slide.traction":        "Traction & Milestones",
		"slide.financials":      "Financial Overview",
		"slide.use_of_funds":    "Use of Funds",
	},
	Norwegian: {
		"phase.label":           "Nåværende fase",
		"phase.uploading":       "Fase 1: Dokumentopplasting",
		"phase.selecting":       "Fase 2: Valg av lysbilder",
		"phase.generating":      "Fase 3: Innholdsgenerering",
		"phase.previewing":      "Fase 4: Forhåndsvisning",
		"phase.exported":        "Fase 5: Eksportert",
		"phase.unknown":         "Ukjent fase",
		"language.label":        "Språk",
		"language.en":           "Engelsk",
		"language.no":           "Norsk",
		"language.success":      "Språk er vellykket satt",
		"editmode.label":        "Redigeringsmodus",
		"editmode.structured":   "Strukturert Redigering",
		"editmode.guided":       "Veiledet Tilbakemelding",
		"landing.prompt":        "Skriv inn prosjektnavnet ditt:",
		"landing.placeholder":   "Skriv inn prosjektnavn",
		"landing.creating":      "Oppretter prosjekt…",
		"landing.created":       "Prosjektet %q er opprettet",
		"upload.heading":        "Last opp dokument",
		"upload.prompt":         "Last opp bedriftsdokument (valgfritt). Skill stier med komma.",
		"upload.uploading":      "Laster opp dokumenter…",
		"upload.success":        "Lastet opp: %s",
		"upload.hint":           "enter=last opp  tab=gå til valg av lysbilder",
		"selection.required":    "Obligatoriske lysbilder",
		"selection.optional":    "Valgfrie lysbilder",
		"selection.hint":        "mellomrom=velg  enter=bekreft valg",
		"selection.redirect":    "Ingen analysert prosjekt ennå · tilbake til dokumentopplasting",
		"generation.heading":    "Lysbildeinnhold",
		"generation.progress":   "Genererer lysbildeinnhold … (%d/%d)",
		"generation.complete":   "Generering fullført · %d av %d lysbilder klare",
		"generation.pending":    "venter",
		"generation.running":    "genererer",
		"generation.done":       "ferdig",
		"generation.failed":     "feilet",
		"results.hint":          "e=rediger  u=angre  m=endre seksjon  p=forhåndsvis",
		"results.edited":        "(redigert)",
		"results.empty":         "Ingen lysbilder ble generert.",
		"edit.prompt":           "Skriv inn endringsforespørselen din her...",
		"edit.hint":             "ctrl+s=lagre  esc=avbryt",
		"edit.pending":          "Oppdaterer %s…",
		"edit.saved":            "Oppdaterte %s",
		"edit.reverted":         "Tilbakestilte %s til generert tekst",
		"preview.heading":       "Forhåndsvisning",
		"preview.hint":          "x=eksporter som PDF  d=slett prosjekt  b=tilbake til redigering",
		"preview.served":        "Forhåndsvisning tilgjengelig på %s",
		"preview.empty":         "Ingen lysbilder er generert ennå.",
		"preview.edited":        "Redigert",
		"export.pending":        "Eksporterer...",
		"export.success":        "Nedlasting lagret i %s",
		"delete.pending":        "Sletter…",
		"delete.success":        "Prosjektet med ID %q ble slettet.",
		"keys.global":           "ctrl+l=språk  ctrl+t=redigeringsmodus  ctrl+c=avslutt",
		"error.creation":        "Kunne ikke opprette prosjektet: %s",
		"error.creation.name":   "Prosjekt-ID er påkrevd",
		"error.upload":          "Opplasting feilet: %s",
		"error.upload.empty":    "Velg minst én fil å laste opp.",
		"error.generation_item": "Lysbildet %s kunne ikke genereres: %s",
		"error.edit":            "Kunne ikke redigere lysbildet: %s",
		"error.edit.busy":       "En annen redigering pågår fortsatt.",
		"error.edit.empty":      "Beskriv endringen du ønsker først.",
		"error.edit.stale":      "Lysbildet ble endret mens redigeringen pågikk.",
		"error.slide.unknown":   "Lysbildet er ikke en del av den genererte presentasjonen.",
		"error.deletion":        "Feil: %s",
		"error.missing":         "Ingen autentiseringstoken funnet.",
		"error.export":          "Kunne ikke laste ned PDF. Prøv igjen.",
		"error.language":        "Kunne ikke sette språk",
		"error.generic":         "Feil: %s",
		"slide.title":           "Tittelslide",
		"slide.introduction":    "Introduksjon",
		"slide.problem":         "Problemstilling",
		"slide.solution":        "Løsning",
		"slide.market":          "Markedmuligheter",
		"slide.ask":             "Forespørsel",
		"slide.team":            "Møt Teamet",
		"slide.experience":      "Vår Erfaring med Problemet",
		"slide.revenue":         "Inntektsmodell",
		"slide.go_to_market":    "Gå-til-marked Strategi",
		"slide.demo":            "Demo",
		"slide.technology":      "Teknologi",
		"slide.pipeline":        "Produktutviklingsplan",
		"slide.expansion":       "Produktutvidelse",
		"slide.uniqueness":      "Unikhet og Beskyttelse",
		"slide.competition":     "Konkurranselandskap",
		"slide.traction":        "Fremdrift og Milepæler",
		"slide.financials":      "Finansiell Oversikt",
		"slide.use_of_funds":    "Bruk av Midler",
	},
}
