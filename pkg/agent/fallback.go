package agent

import (
	"fmt"
	"strings"

	"github.com/socialfactory/rangers/pkg/memory"
)

const offlineNotice = "⚠️ ระบบออฟไลน์ชั่วคราว กรุณาตรวจสอบ API Key"

// BuildFallbackResponse renders the offline template for a persona so the
// user still gets something actionable when the gateway is unreachable.
func BuildFallbackResponse(personaID, input string, brand *memory.BrandProfile) string {
	brandName := "แบรนด์ของคุณ"
	industry := "ธุรกิจ"
	usps := "คุณภาพดี"
	audience := "กลุ่มเป้าหมาย"
	competitors := "ยังไม่มีข้อมูล"
	if brand != nil {
		if brand.NameLocal != "" {
			brandName = brand.NameLocal
		}
		if brand.Industry != "" {
			industry = brand.Industry
		}
		if brand.CoreUSP != "" {
			usps = brand.CoreUSP
		}
		if brand.TargetAudience != "" {
			audience = brand.TargetAudience
		}
		if len(brand.Competitors) > 0 {
			competitors = strings.Join(brand.Competitors, ", ")
		}
	}

	switch personaID {
	case "brand-builder":
		return fmt.Sprintf("🏷️ **สร้างแบรนด์สำหรับ %s**\n\nจากที่บอกมา ขอถามเพิ่มนิดนึงนะคะ:\n1. %s มีจุดเด่นที่ต่างจากคู่แข่งยังไงคะ?\n2. ลูกค้าหลักเป็นใครคะ? อายุเท่าไหร่? อยู่ไหน?\n\n%s", brandName, brandName, offlineNotice)
	case "content-creator":
		return fmt.Sprintf("✍️ **ไอเดียคอนเทนต์สำหรับ %s**\n\n**Hook ที่ใช้ได้:**\n\"[ปัญหาที่ %s เจอ] — %s มีคำตอบ\"\n\n**จุดเด่นที่โพสต์ได้:** %s\n\n%s", brandName, audience, brandName, usps, offlineNotice)
	case "campaign-planner":
		return fmt.Sprintf("📅 **โครงร่างแคมเปญ %s**\n\n- สัปดาห์ 1: แนะนำตัว ให้คนรู้จัก\n- สัปดาห์ 2: แสดงจุดเด่น \"%s\"\n- สัปดาห์ 3: ปิดการขาย / CTA\n\n%s", brandName, usps, offlineNotice)
	case "market-insight":
		return fmt.Sprintf("🔭 **ภาพรวมตลาด %s**\n\n- วิเคราะห์คู่แข่ง: %s\n- โอกาส: ช่องว่างที่คู่แข่งยังไม่ได้ทำ\n- จุดแข็ง %s: %s\n\n%s", industry, competitors, brandName, usps, offlineNotice)
	case "advisor":
		return fmt.Sprintf("💬 ได้รับคำถามแล้วค่ะ: \"%s\"\n\nฉันพร้อมช่วยทันทีที่ระบบกลับมาออนไลน์นะคะ\n\n%s", input, offlineNotice)
	default:
		return fmt.Sprintf("💬 ได้รับคำถาม: \"%s\"\n\n%s", input, offlineNotice)
	}
}
