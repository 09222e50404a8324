package quote

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Each attribute extractor tries an ordered list of candidate patterns,
// most specific first, and falls back to a documented default when
// nothing matches.

var (
	totalRe    = regexp.MustCompile(`(?i)Total Order:\s*\$\s*([\d,]+(?:\.\d+)?)`)
	quantityRe = regexp.MustCompile(`(?i)\b([\d,]+)\s*pieces\b`)

	baseCostRe     = regexp.MustCompile(`(?i)(?:Blank Caps?|Base Product)[^:\n]*:\s*\$\s*([\d,]+(?:\.\d+)?)`)
	customCostRe   = regexp.MustCompile(`(?i)Customization[^:\n]*:\s*\$\s*([\d,]+(?:\.\d+)?)`)
	deliveryCostRe = regexp.MustCompile(`(?i)Delivery[^:\n]*:\s*\$\s*([\d,]+(?:\.\d+)?)`)
)

func extractTotal(msg string) (decimal.Decimal, bool) {
	return matchMoney(totalRe, msg)
}

func extractQuantity(msg string) (int, bool) {
	m := quantityRe.FindStringSubmatch(msg)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func extractBaseCost(msg string) decimal.Decimal     { return matchMoneyOrZero(baseCostRe, msg) }
func extractCustomCost(msg string) decimal.Decimal   { return matchMoneyOrZero(customCostRe, msg) }
func extractDeliveryCost(msg string) decimal.Decimal { return matchMoneyOrZero(deliveryCostRe, msg) }

func matchMoney(re *regexp.Regexp, msg string) (decimal.Decimal, bool) {
	m := re.FindStringSubmatch(msg)
	if m == nil {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func matchMoneyOrZero(re *regexp.Regexp, msg string) decimal.Decimal {
	d, _ := matchMoney(re, msg)
	return d
}

// --- Fabric ---

const defaultFabric = "Standard Cotton"

// canonicalFabrics normalizes recognized fabric spellings.
var canonicalFabrics = map[string]string{
	"airmesh":         "Air Mesh",
	"air mesh":        "Air Mesh",
	"acrylic":         "Acrylic",
	"chino twill":     "Chino Twill",
	"cotton":          "Cotton",
	"duck camo":       "Duck Camo",
	"genuine leather": "Genuine Leather",
	"laser cut":       "Laser Cut",
	"mesh":            "Mesh",
	"micro mesh":      "Micro Mesh",
	"polyester":       "Polyester",
	"ripstop":         "Ripstop",
	"suede":           "Suede",
	"trucker mesh":    "Trucker Mesh",
}

var (
	compoundFabricRe = regexp.MustCompile(`(?i)\b(Acrylic|Airmesh|Air Mesh|Chino Twill|Cotton|Duck Camo|Genuine Leather|Polyester|Ripstop|Suede)\s*/\s*(Air Mesh|Airmesh|Laser Cut|Mesh|Micro Mesh|Trucker Mesh)\b`)
	fabricLabelRe    = regexp.MustCompile(`(?i)\bFabric(?:\s*Type)?:\s*([A-Za-z][A-Za-z /-]{1,39})`)
)

// fabricKeywords is the generic keyword-in-context fallback, most specific
// names first so "Trucker Mesh" wins over "Mesh".
var fabricKeywords = []string{
	"Trucker Mesh", "Micro Mesh", "Laser Cut", "Air Mesh", "Chino Twill",
	"Genuine Leather", "Duck Camo", "Ripstop", "Suede", "Acrylic",
	"Polyester", "Cotton", "Mesh",
}

func extractFabric(msg string) string {
	if m := compoundFabricRe.FindStringSubmatch(msg); m != nil {
		joined := canonicalFabric(m[1]) + "/" + canonicalFabric(m[2])
		if cleanCapture(joined) {
			return joined
		}
	}

	if m := fabricLabelRe.FindStringSubmatch(msg); m != nil {
		value := strings.TrimSpace(strings.TrimRight(m[1], " /-"))
		if cleanCapture(value) && value != "" {
			if strings.Contains(value, "/") {
				parts := strings.Split(value, "/")
				for i, p := range parts {
					parts[i] = canonicalFabric(p)
				}
				return strings.Join(parts, "/")
			}
			return canonicalFabric(value)
		}
	}

	lower := strings.ToLower(msg)
	for _, kw := range fabricKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return kw
		}
	}
	return defaultFabric
}

func canonicalFabric(name string) string {
	name = strings.TrimSpace(name)
	if canon, ok := canonicalFabrics[strings.ToLower(name)]; ok {
		return canon
	}
	return titleCase(name)
}

// cleanCapture guards against a pattern accidentally swallowing pricing
// text or whole paragraphs.
func cleanCapture(s string) bool {
	return !strings.ContainsAny(s, "$*\n") && len(s) <= 40
}

// --- Colors ---

var (
	colorBulletRe = regexp.MustCompile(`(?m)^\s*[•\-]\s*([A-Z][A-Za-z ]*?):\s*[\d,]+\s*pieces\b`)
	colorLabelRe  = regexp.MustCompile(`(?i)\bColou?rs?:\s*([^\n]+)`)
	twoToneRe     = regexp.MustCompile(`\b([A-Z][a-z]+)/([A-Z][a-z]+)\b`)
)

var commonColors = []string{
	"Black", "White", "Navy", "Royal", "Red", "Blue", "Green", "Grey",
	"Gray", "Charcoal", "Khaki", "Orange", "Yellow", "Purple", "Pink",
	"Brown", "Maroon", "Gold", "Olive",
}

// textureWords are terms that show up in color positions but describe
// fabric, not color.
var textureWords = map[string]bool{
	"camo": true, "mesh": true, "fabric": true, "leather": true,
	"suede": true, "twill": true, "cotton": true, "polyester": true,
	"acrylic": true, "ripstop": true, "trim": true,
}

func extractColors(msg string) []string {
	// AI responses list per-color piece counts as bullets.
	if matches := colorBulletRe.FindAllStringSubmatch(msg, -1); len(matches) > 0 {
		colors := make([]string, 0, len(matches))
		for _, m := range matches {
			if c := strings.TrimSpace(m[1]); c != "" && !isTexture(c) {
				colors = append(colors, c)
			}
		}
		if len(colors) > 0 {
			return colors
		}
	}

	if m := colorLabelRe.FindStringSubmatch(msg); m != nil {
		value := strings.TrimSpace(m[1])
		if strings.Contains(value, "/") {
			// Two-tone combos stay a single joined string.
			if cleanCapture(value) {
				return []string{value}
			}
		} else {
			parts := regexp.MustCompile(`[,&]`).Split(value, -1)
			colors := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" && cleanCapture(p) && !isTexture(p) {
					colors = append(colors, p)
				}
			}
			if len(colors) > 0 {
				return colors
			}
		}
	}

	if m := twoToneRe.FindStringSubmatch(msg); m != nil {
		if !isTexture(m[1]) && !isTexture(m[2]) {
			return []string{m[1] + "/" + m[2]}
		}
	}

	lower := strings.ToLower(msg)
	var found []string
	for _, c := range commonColors {
		if colorMentioned(lower, strings.ToLower(c)) {
			found = append(found, c)
		}
	}
	if len(found) > 0 {
		return found
	}
	return []string{"Black"}
}

func isTexture(word string) bool {
	for w := range textureWords {
		if strings.Contains(strings.ToLower(word), w) {
			return true
		}
	}
	return false
}

// colorMentioned checks presence of a color word that is not immediately
// qualifying a fabric term ("duck camo", "black mesh panel").
func colorMentioned(lower, color string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], color)
		if i < 0 {
			return false
		}
		pos := idx + i
		rest := lower[pos+len(color):]
		rest = strings.TrimLeft(rest, " :,-")
		if !strings.HasPrefix(rest, "camo") && !strings.HasPrefix(rest, "mesh") && !strings.HasPrefix(rest, "fabric") {
			return true
		}
		idx = pos + len(color)
	}
}

// --- Accessories ---

var (
	accessorySectionRe = regexp.MustCompile(`(?s)🎁\s*Accessories[^\n]*\n(.*?)(?:\n\s*\n|\n[🎨💰📦🚚✅]|$)`)
	accessoryBulletRe  = regexp.MustCompile(`(?m)^\s*[•\-]\s*([A-Za-z][A-Za-z() \-]+?)(?:\s*[:$].*)?$`)
)

var accessoryKeywords = []string{
	"Hang Tag", "Sticker", "B-Tape", "Brand Label", "Woven Label",
	"Rope", "Metal Eyelet", "Plastic Snap",
}

func extractAccessories(msg string) []string {
	if section := accessorySectionRe.FindStringSubmatch(msg); section != nil {
		var accessories []string
		for _, m := range accessoryBulletRe.FindAllStringSubmatch(section[1], -1) {
			name := normalizeAccessory(m[1])
			if name != "" {
				accessories = append(accessories, name)
			}
		}
		if len(accessories) > 0 {
			return accessories
		}
	}

	lower := strings.ToLower(msg)
	var found []string
	for _, kw := range accessoryKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			found = append(found, kw)
		}
	}
	return found
}

func normalizeAccessory(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "(Inside Label)", "Label")
	return strings.Join(strings.Fields(name), " ")
}

// --- Logos ---

var logoTypes = `3D Embroidery|Flat Embroidery|Embroidery|Leather Patch|Rubber Patch|Woven Patch|Printed Patch|Screen Print|Sublimation`

var (
	// [Size] [Type] on/at [Position]
	logoSizeTypePosRe = regexp.MustCompile(`(?i)\b(Small|Medium|Large)\s+(` + logoTypes + `)\s+(?:on|at)\s+(?:the\s+)?(front|back|left side|right side|left|right|upper bill|under bill)\b`)
	// [Position]: [Description]
	logoPosDescRe = regexp.MustCompile(`(?im)^\s*[•\-]?\s*(Front|Back|Left Side|Right Side|Left|Right|Upper Bill|Under Bill)\s*:\s*([^\n]+)$`)
	// [Type] at/on [Position]
	logoTypePosRe = regexp.MustCompile(`(?i)\b(` + logoTypes + `)\s+(?:at|on)\s+(?:the\s+)?(front|back|left side|right side|upper bill|under bill)\b`)

	logoSizeRe = regexp.MustCompile(`(?i)\b(Small|Medium|Large)\b`)
)

func extractLogos(msg string) []Logo {
	var logos []Logo
	seen := map[string]bool{}

	add := func(location, typ, size string) {
		location = normalizePosition(location)
		typ = canonicalLogoType(typ)
		key := strings.ToLower(location) + "|" + strings.ToLower(typ)
		if seen[key] {
			return
		}
		seen[key] = true
		logos = append(logos, Logo{Location: location, Type: typ, Size: size})
	}

	for _, m := range logoSizeTypePosRe.FindAllStringSubmatch(msg, -1) {
		add(m[3], m[2], titleCase(m[1]))
	}

	for _, m := range logoPosDescRe.FindAllStringSubmatch(msg, -1) {
		desc := m[2]
		typ, ok := logoTypeFromDescription(desc)
		if !ok {
			continue
		}
		size := defaultLogoSize(m[1])
		if sm := logoSizeRe.FindStringSubmatch(desc); sm != nil {
			size = titleCase(sm[1])
		}
		add(m[1], typ, size)
	}

	for _, m := range logoTypePosRe.FindAllStringSubmatch(msg, -1) {
		add(m[2], m[1], defaultLogoSize(m[2]))
	}

	if len(logos) == 0 {
		// Bare mentions assume front placement.
		lower := strings.ToLower(msg)
		if strings.Contains(lower, "3d embroidery") {
			add("Front", "3D Embroidery", "Large")
		} else if strings.Contains(lower, "leather patch") {
			add("Front", "Leather Patch", "Large")
		}
	}
	return logos
}

func logoTypeFromDescription(desc string) (string, bool) {
	d := strings.ToLower(desc)
	switch {
	case strings.Contains(d, "3d"):
		return "3D Embroidery", true
	case strings.Contains(d, "leather"):
		return "Leather Patch", true
	case strings.Contains(d, "rubber"):
		return "Rubber Patch", true
	case strings.Contains(d, "woven"):
		return "Woven Patch", true
	case strings.Contains(d, "print"):
		return "Screen Print", true
	case strings.Contains(d, "embroider"):
		return "Flat Embroidery", true
	default:
		return "", false
	}
}

func canonicalLogoType(typ string) string {
	switch strings.ToLower(strings.Join(strings.Fields(typ), " ")) {
	case "3d embroidery":
		return "3D Embroidery"
	case "embroidery", "flat embroidery":
		return "Flat Embroidery"
	default:
		return titleCase(typ)
	}
}

// Front logos run large by default, side and back placements small.
func defaultLogoSize(position string) string {
	if strings.EqualFold(strings.TrimSpace(position), "front") {
		return "Large"
	}
	return "Small"
}

// normalizePosition collapses whitespace and title-cases the placement,
// special-casing the bill surfaces.
func normalizePosition(pos string) string {
	pos = strings.Join(strings.Fields(pos), " ")
	switch strings.ToLower(pos) {
	case "upper bill":
		return "Upper Bill"
	case "under bill":
		return "Under Bill"
	default:
		return titleCase(pos)
	}
}

// --- Short attribute extractors ---

var profileRe = regexp.MustCompile(`(?i)\b(High|Mid|Low)[ -]?Profile\b`)

func extractProfile(msg string) string {
	if m := profileRe.FindStringSubmatch(msg); m != nil {
		return titleCase(m[1]) + " Profile"
	}
	return "High Profile"
}

var structureRe = regexp.MustCompile(`(?i)\b(Unstructured|Structured|Foam)\b`)

func extractStructure(msg string) string {
	if m := structureRe.FindStringSubmatch(msg); m != nil {
		return titleCase(m[1])
	}
	return "Structured"
}

var closureRe = regexp.MustCompile(`(?i)\b(Fitted|Snap[ -]?back|Adjustable|Velcro|Hook\s*(?:and|&)\s*Loop|Buckle|Elastic|Stretch(?:\s*Fit)?)\b`)

// extractClosure normalizes the closure vocabulary down to
// Fitted/Snapback/Adjustable/Velcro/Buckle/Elastic.
func extractClosure(msg string) string {
	m := closureRe.FindStringSubmatch(msg)
	if m == nil {
		return "Snapback"
	}
	v := strings.ToLower(strings.Join(strings.Fields(m[1]), " "))
	switch {
	case strings.HasPrefix(v, "snap"):
		return "Snapback"
	case strings.HasPrefix(v, "hook"):
		return "Velcro"
	case strings.HasPrefix(v, "stretch"):
		return "Elastic"
	default:
		return titleCase(v)
	}
}

var (
	slightCurvedRe = regexp.MustCompile(`(?i)\b(?:slightly\s+curved|slight\s+curved?|slight\s+curve)\b`)
	flatRe         = regexp.MustCompile(`(?i)\bflat\b`)
	curvedRe       = regexp.MustCompile(`(?i)\bcurved?\b`)
)

// extractBillShape normalizes into exactly Flat, Slight Curved, or
// Curved. The three-way distinction is preserved: collapsing Slight
// Curved into Curved would change which blank-cap tier table applies.
func extractBillShape(msg string) string {
	switch {
	case slightCurvedRe.MatchString(msg):
		return "Slight Curved"
	case flatRe.MatchString(msg):
		return "Flat"
	case curvedRe.MatchString(msg):
		return "Curved"
	default:
		return "Curved"
	}
}

var (
	sizeLabelRe  = regexp.MustCompile(`(?i)\bSize:\s*([^\n,]+)`)
	fittedSizeRe = regexp.MustCompile(`\b(6 7/8|7 1/8|7 1/4|7 3/8|7 1/2|7 5/8|7 3/4)\b`)
)

func extractSize(msg string) string {
	if m := sizeLabelRe.FindStringSubmatch(msg); m != nil {
		if v := strings.TrimSpace(m[1]); cleanCapture(v) && v != "" {
			return v
		}
	}
	if m := fittedSizeRe.FindStringSubmatch(msg); m != nil {
		return m[1]
	}
	return "7 1/4"
}

var (
	leadTimeLabelRe = regexp.MustCompile(`(?i)\bLead Time:\s*([^\n]+)`)
	leadTimeSpanRe  = regexp.MustCompile(`(?i)\b(\d+(?:\s*[-–]\s*\d+)?)\s*(business\s+days|weeks|days)\b`)
)

func extractLeadTime(msg string) string {
	if m := leadTimeLabelRe.FindStringSubmatch(msg); m != nil {
		if v := strings.TrimSpace(m[1]); cleanCapture(v) {
			return v
		}
	}
	if m := leadTimeSpanRe.FindStringSubmatch(msg); m != nil {
		return strings.Join(strings.Fields(m[1]+" "+m[2]), " ")
	}
	return ""
}

var deliveryMethodRe = regexp.MustCompile(`(?i)\b(Regular Delivery|Priority Delivery|Express Delivery|Air Freight|Sea Freight|Standard Shipping)\b`)

func extractDeliveryMethod(msg string) string {
	if m := deliveryMethodRe.FindStringSubmatch(msg); m != nil {
		return titleCase(m[1])
	}
	return "Regular Delivery"
}

var productNameRe = regexp.MustCompile(`(?i)\b([567][ -]Panel\s+[A-Za-z][A-Za-z0-9 ]*)`)

func extractProductName(msg string) string {
	if m := productNameRe.FindStringSubmatch(msg); m != nil {
		if v := strings.TrimSpace(m[1]); cleanCapture(v) {
			return v
		}
	}
	return "Custom Cap"
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
