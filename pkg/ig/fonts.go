package ig

import "strings"

// FontFile is a downloadable font binary offered by an upstream source.
type FontFile struct {
	URL    string // Direct download URL
	Format string // Lowercase format tag, e.g. "ttf", "woff2"
}

// FontDescriptor describes one icon font the engine can serve. Descriptors
// are built once at startup and never mutated afterwards.
type FontDescriptor struct {
	Identifier     string     // Globally unique id, e.g. "material-symbols-outlined"
	SourceID       string     // Which Source handles this font's metadata
	DisplayName    string     // Human name shared across styles
	StyleLabel     string     // Style variant, e.g. "Outlined"
	FontFamily     string     // Family name the OS resolves after install
	MetadataURL    string     // Where glyph metadata is downloaded from
	FontFiles      []FontFile // Installable binaries, preferred format first
	Weights        []string   // Available weight names, lightest first
	InfoURL        string     // Optional project page
	License        string     // Optional license label
	DefaultEnabled bool       // Whether pickers enable this font out of the box
}

// Label combines display name and style into the human font label.
func (f FontDescriptor) Label() string {
	return f.DisplayName + " " + f.StyleLabel
}

// Source identifiers for the built-in font table.
const (
	SourceMaterial    = "material"
	SourceMDI         = "mdi"
	SourceFontAwesome = "fontawesome"
)

const (
	materialVariableBase = "https://raw.githubusercontent.com/google/material-design-icons/master/variablefont/"
	materialFontBase     = "https://raw.githubusercontent.com/google/material-design-icons/master/font/"
	mdiSVGBase           = "https://cdn.jsdelivr.net/npm/@mdi/svg@7.4.47/"
	mdiFontBase          = "https://cdn.jsdelivr.net/npm/@mdi/font@7.4.47/fonts/"
	fontAwesomeBase      = "https://cdn.jsdelivr.net/npm/@fortawesome/fontawesome-free@6.5.2/"
)

func materialSymbolsFont(style string) FontDescriptor {
	// Upstream keeps the variable axis list in the filename; it has to stay
	// percent-encoded in the URL.
	stem := "MaterialSymbols" + style + "%5BFILL,GRAD,opsz,wght%5D"
	return FontDescriptor{
		Identifier:  "material-symbols-" + strings.ToLower(style),
		SourceID:    SourceMaterial,
		DisplayName: "Material Symbols",
		StyleLabel:  style,
		FontFamily:  "Material Symbols " + style,
		MetadataURL: materialVariableBase + stem + ".codepoints",
		FontFiles: []FontFile{
			{URL: materialVariableBase + stem + ".ttf", Format: "ttf"},
			{URL: materialVariableBase + stem + ".woff2", Format: "woff2"},
		},
		Weights:        []string{"Thin", "Light", "Regular", "Medium", "Bold"},
		InfoURL:        "https://fonts.google.com/icons",
		License:        "Apache-2.0",
		DefaultEnabled: true,
	}
}

// BuiltinFonts returns the descriptor table shipped with the engine.
func BuiltinFonts() []FontDescriptor {
	return []FontDescriptor{
		materialSymbolsFont("Outlined"),
		materialSymbolsFont("Rounded"),
		materialSymbolsFont("Sharp"),
		{
			Identifier:  "material-icons-regular",
			SourceID:    SourceMaterial,
			DisplayName: "Material Icons",
			StyleLabel:  "Regular",
			FontFamily:  "Material Icons",
			MetadataURL: materialFontBase + "MaterialIcons-Regular.codepoints",
			FontFiles: []FontFile{
				{URL: materialFontBase + "MaterialIcons-Regular.ttf", Format: "ttf"},
			},
			Weights:        []string{"Regular"},
			InfoURL:        "https://fonts.google.com/icons?icon.set=Material+Icons",
			License:        "Apache-2.0",
			DefaultEnabled: true,
		},
		{
			Identifier:  "mdi",
			SourceID:    SourceMDI,
			DisplayName: "Material Design Icons",
			StyleLabel:  "Regular",
			FontFamily:  "Material Design Icons",
			MetadataURL: mdiSVGBase + "meta.json",
			FontFiles: []FontFile{
				{URL: mdiFontBase + "materialdesignicons-webfont.ttf", Format: "ttf"},
				{URL: mdiFontBase + "materialdesignicons-webfont.woff2", Format: "woff2"},
			},
			Weights:        []string{"Regular"},
			InfoURL:        "https://pictogrammers.com/library/mdi/",
			License:        "Apache-2.0",
			DefaultEnabled: true,
		},
		{
			Identifier:  "fontawesome-solid",
			SourceID:    SourceFontAwesome,
			DisplayName: "Font Awesome Free",
			StyleLabel:  "Solid",
			FontFamily:  "Font Awesome 6 Free",
			MetadataURL: fontAwesomeBase + "css/all.css",
			FontFiles: []FontFile{
				{URL: fontAwesomeBase + "webfonts/fa-solid-900.ttf", Format: "ttf"},
				{URL: fontAwesomeBase + "webfonts/fa-solid-900.woff2", Format: "woff2"},
			},
			Weights:        []string{"Bold"},
			InfoURL:        "https://fontawesome.com/icons",
			License:        "CC-BY-4.0 / SIL OFL 1.1",
			DefaultEnabled: false,
		},
	}
}
