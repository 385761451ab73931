package catalog

import "pestguide-backend-go/internal/models"

// Static datasets served when a catalog collection is empty or
// unreachable. This is a product decision for offline resilience and demo
// use, not error recovery; fetch failures are logged and absorbed.

func fallbackGuides() []models.Guide {
	return []models.Guide{
		{
			ID:          "1",
			Title:       "How to get rid of Ants",
			Description: "Complete guide to removing ants from your kitchen.",
			IsPaid:      false,
			Content: `
# Ant Removal Guide

Ants are a common nuisance. Here is how to deal with them:

1. **Identify the species**: Sugar ants vs Carpenter ants.
2. **Remove food sources**: Clean up crumbs.
3. **Seal entry points**: Caulk cracks.
4. **Use Baits**: Slow acting baits are best.
`,
		},
		{
			ID:          "2",
			Title:       "Advanced Bed Bug Treatment",
			Description: "Professional grade steps for bed bugs. (Premium)",
			IsPaid:      true,
			Content: `
# Bed Bug Protocol (Premium)

This is a premium guide for advanced users.

1. **Inspection**: check mattresses seams.
2. **Heat Treatment**: Wash clothes in hot water.
3. **Chemicals**: Use residuals (only if licensed).
4. **Follow up**: Re-inspect in 2 weeks.
`,
		},
		{
			ID:          "3",
			Title:       "Rodent Control 101",
			Description: "Mouse vs Rat identification and trapping.",
			IsPaid:      false,
			Content:     "Rodents can be tricky. Use snap traps effectively...",
		},
		{
			ID:          "4",
			Title:       "Termite Prevention Secrets",
			Description: "Save your home foundation.",
			IsPaid:      true,
			Content:     "Termites cause billions in damages. Here is the secret...",
		},
	}
}

func fallbackChemicals() []models.Chemical {
	return []models.Chemical{
		{
			ID:          "1",
			Title:       "Boric Acid",
			Description: "A common and effective insecticide.",
			IsPaid:      false,
			Content: `
<h1>Boric Acid</h1>
<p>Boric acid is widely used for controlling cockroaches, ants, and other pests.</p>
<h2>How it works</h2>
<p>It acts as a stomach poison for insects and also damages their exoskeletons.</p>
<h2>Application</h2>
<ul>
    <li>Apply in cracks and crevices.</li>
    <li>Keep away from children and pets.</li>
</ul>
`,
		},
		{
			ID:          "2",
			Title:       "Diatomaceous Earth",
			Description: "Natural pest control for various insects.",
			IsPaid:      false,
			Content: `
<h1>Diatomaceous Earth</h1>
<p>DE is made from fossilized remains of diatoms.</p>
<h2>Safety</h2>
<p>Use food-grade DE for household pest control.</p>
`,
		},
		{
			ID:          "3",
			Title:       "Imidacloprid (Professional)",
			Description: "Potent neurotoxin for severe infestations.",
			IsPaid:      true,
			Content: `
<h1>Imidacloprid</h1>
<p>This is a systemic insecticide which acts as an insect neurotoxin.</p>
<p><strong>Warning:</strong> Use with extreme caution and follow label instructions strictly.</p>
`,
		},
	}
}

func fallbackServices() []models.Service {
	return []models.Service{
		{
			ID:          "1",
			Title:       "General Pest Inspection",
			Description: "Comprehensive home inspection for all common pests.",
			Content:     "Our certified technicians will inspect your entire property...",
			PriceRange:  "$100 - $150",
		},
		{
			ID:          "2",
			Title:       "Termite Treatment",
			Description: "Protect your home structural integrity.",
			Content:     "We use the latest liquid defense systems...",
			PriceRange:  "Call for Quote",
		},
	}
}
