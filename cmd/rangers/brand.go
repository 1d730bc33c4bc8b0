package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/socialfactory/rangers/pkg/memory"
)

func brandCmd() {
	if len(os.Args) < 3 {
		brandHelp()
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	store, err := memory.NewSQLiteStore(cfg.MemoryPath(), cfg.Memory.MaxBrandsPerUser)
	if err != nil {
		fmt.Printf("Error opening store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	userID := "local"
	subcommand := os.Args[2]
	rest := os.Args[3:]
	for i := 0; i < len(rest); i++ {
		if rest[i] == "-u" || rest[i] == "--user" {
			if i+1 < len(rest) {
				userID = rest[i+1]
				i++
			}
		}
	}

	switch subcommand {
	case "add":
		brandAddCmd(store, userID)
	case "list":
		brandListCmd(store, userID)
	case "show":
		if len(rest) < 1 || strings.HasPrefix(rest[0], "-") {
			fmt.Println("Usage: rangers brand show <brand_id>")
			return
		}
		brandShowCmd(store, rest[0])
	case "remove", "rm", "delete":
		if len(rest) < 1 || strings.HasPrefix(rest[0], "-") {
			fmt.Println("Usage: rangers brand remove <brand_id>")
			return
		}
		brandRemoveCmd(store, rest[0])
	default:
		fmt.Printf("Unknown brand command: %s\n", subcommand)
		brandHelp()
	}
}

func brandHelp() {
	fmt.Println("Usage: rangers brand <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  add      Onboard a new brand (interactive)")
	fmt.Println("  list     List brand profiles")
	fmt.Println("  show     Show one brand profile")
	fmt.Println("  remove   Delete a brand profile")
}

// brandAddCmd walks the onboarding questions. Blank answers leave a field
// empty; the rangers ask follow-ups for anything missing.
func brandAddCmd(store memory.Store, userID string) {
	reader := bufio.NewReader(os.Stdin)
	ask := func(prompt string) string {
		fmt.Print(prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			return ""
		}
		return strings.TrimSpace(line)
	}
	askList := func(prompt string) []string {
		raw := ask(prompt)
		if raw == "" {
			return nil
		}
		parts := strings.Split(raw, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	}

	fmt.Println("Brand onboarding — ตอบเป็นภาษาไทยหรืออังกฤษก็ได้ เว้นว่างเพื่อข้าม")
	fmt.Println()

	profile := memory.BrandProfile{
		UserID:                   userID,
		NameLocal:                ask("ชื่อแบรนด์ (ไทย): "),
		NameInternational:        ask("ชื่อแบรนด์ (English, optional): "),
		Industry:                 ask("อุตสาหกรรม/ประเภทธุรกิจ: "),
		CoreUSP:                  ask("จุดเด่นของแบรนด์ (USP): "),
		TargetAudience:           ask("กลุ่มลูกค้าหลัก: "),
		TargetPersonaDescription: ask("อธิบายลูกค้าในฝัน (optional): "),
		ToneOfVoice:              ask("โทนเสียงของแบรนด์ (เช่น อบอุ่น, มืออาชีพ): "),
		Competitors:              askList("คู่แข่ง (คั่นด้วย ,): "),
		PainPoints:               askList("ปัญหาที่ลูกค้าเจอ (คั่นด้วย ,): "),
		ForbiddenWords:           askList("คำต้องห้าม (คั่นด้วย ,): "),
		BrandHashtags:            askList("แฮชแท็กประจำแบรนด์ (คั่นด้วย ,): "),
	}
	profile.VisualStyle.PrimaryColor = ask("สีหลักของแบรนด์ (hex, optional): ")
	profile.VisualStyle.MoodKeywords = askList("คีย์เวิร์ดอารมณ์ภาพ (คั่นด้วย ,): ")

	if profile.NameLocal == "" {
		fmt.Println("Aborted: brand name is required")
		os.Exit(1)
	}

	saved, err := store.SaveBrandProfile(context.Background(), profile)
	if err != nil {
		if errors.Is(err, memory.ErrBrandLimit) {
			fmt.Println("Error: brand limit reached — remove one first (rangers brand list)")
			os.Exit(1)
		}
		fmt.Printf("Error saving brand: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nBrand saved: %s (%s)\n", saved.NameLocal, saved.ID)
	fmt.Println("Start chatting: rangers chat")
}

func brandListCmd(store memory.Store, userID string) {
	brands, err := store.ListBrandProfiles(context.Background(), userID)
	if err != nil {
		fmt.Printf("Error listing brands: %v\n", err)
		os.Exit(1)
	}
	if len(brands) == 0 {
		fmt.Println("No brands yet — run 'rangers brand add'")
		return
	}
	for _, b := range brands {
		fmt.Printf("%s  %s", b.ID, b.NameLocal)
		if b.Industry != "" {
			fmt.Printf("  (%s)", b.Industry)
		}
		fmt.Println()
	}
}

func brandShowCmd(store memory.Store, brandID string) {
	brand, err := store.GetBrandProfile(context.Background(), brandID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s", brand.NameLocal)
	if brand.NameInternational != "" {
		fmt.Printf(" (%s)", brand.NameInternational)
	}
	fmt.Printf("\n  ID:          %s\n", brand.ID)
	printField := func(label, value string) {
		if value != "" {
			fmt.Printf("  %-12s %s\n", label+":", value)
		}
	}
	printField("Industry", brand.Industry)
	printField("USP", brand.CoreUSP)
	printField("Audience", brand.TargetAudience)
	printField("Persona", brand.TargetPersonaDescription)
	printField("Tone", brand.ToneOfVoice)
	printField("Competitors", strings.Join(brand.Competitors, ", "))
	printField("Pain points", strings.Join(brand.PainPoints, ", "))
	printField("Forbidden", strings.Join(brand.ForbiddenWords, ", "))
	printField("Hashtags", strings.Join(brand.BrandHashtags, ", "))
	printField("Color", brand.VisualStyle.PrimaryColor)
	printField("Mood", strings.Join(brand.VisualStyle.MoodKeywords, ", "))
}

func brandRemoveCmd(store memory.Store, brandID string) {
	if err := store.DeleteBrandProfile(context.Background(), brandID); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Brand %s removed\n", brandID)
}
