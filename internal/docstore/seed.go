package docstore

import (
	"fmt"
	"time"

	"startupconnect-backend/internal/models"
)

const day = int64(24 * time.Hour / time.Millisecond)

// seedData builds the fixture dataset loaded into an empty store: three
// accounts (one per role), three startups, three offers, sector groups
// with a short message history, one candidacy, one saved offer and one
// pending report.
func seedData() (map[string][]Record, error) {
	now := time.Now().UnixMilli()

	users := []any{
		models.User{
			ID:            "admin1",
			Email:         "admin@adpme.bj",
			DisplayName:   "Admin ADPME",
			Role:          models.RoleAdmin,
			EmailVerified: true,
			CreatedAt:     now - 30*day,
		},
		models.User{
			ID:            "partner1",
			Email:         "invest@partner.com",
			DisplayName:   "Bénin Business Angels",
			Role:          models.RolePartner,
			CompanyName:   "Bénin Business Angels",
			EmailVerified: true,
			CreatedAt:     now - 20*day,
		},
		models.User{
			ID:            "startuper1",
			Email:         "ceo@matech.com",
			DisplayName:   "Jean Innov",
			Role:          models.RoleStartuper,
			StartupID:     "s1",
			Sector:        "Tech",
			EmailVerified: true,
			CreatedAt:     now - 10*day,
		},
	}

	startups := []any{
		models.Startup{
			ID:       "s1",
			Name:     "MaTech",
			Sector:   "Tech",
			Location: "Cotonou",
			RCCM:     "RB/COT/2024/A/001",
			RCCMPDF:  "mock-rccm-matech.pdf",
			Members: []models.Member{
				{UserID: "startuper1", Name: "Jean Innov", Role: "CEO", IsFounder: true, JoinedAt: now - 10*day},
			},
			Description: "Plateforme d'IA pour l'agriculture intelligente au Bénin.",
			Website:     "https://matech.bj",
			Size:        "5-10",
			Verified:    true,
			CreatedAt:   now - 10*day,
		},
		models.Startup{
			ID:          "s2",
			Name:        "AgriBenin",
			Sector:      "Agri",
			Location:    "Parakou",
			RCCM:        "RB/PKO/2023/B/554",
			RCCMPDF:     "mock-rccm-agri.pdf",
			Members:     []models.Member{},
			Description: "Transformation et exportation de noix de cajou bio.",
			Website:     "https://agribenin.com",
			Size:        "10-50",
			Verified:    true,
			CreatedAt:   now - 60*day,
		},
		models.Startup{
			ID:          "s3",
			Name:        "FinTech Solutions",
			Sector:      "Finance",
			Location:    "Cotonou",
			RCCM:        "RB/COT/2024/A/089",
			RCCMPDF:     "mock-rccm-fintech.pdf",
			Members:     []models.Member{},
			Description: "Solutions de paiement mobile pour les commerçants.",
			Size:        "1-5",
			Verified:    false,
			CreatedAt:   now - 5*day,
		},
	}

	offers := []any{
		models.Offer{
			ID:              "o1",
			Title:           "Programme d'Accélération Tech 2025",
			Description:     "Programme intensif de 3 mois pour startups technologiques avec financement jusqu'à 50M FCFA, mentorat et accès au marché.",
			Type:            models.OfferTypeOffer,
			Sector:          "Tech",
			CreatorID:       "partner1",
			CreatorName:     "Bénin Business Angels",
			Deadline:        now + 30*day,
			HasInternalForm: true,
			Views:           45,
			Applications:    12,
			CreatedAt:       now - 5*day,
		},
		models.Offer{
			ID:              "o2",
			Title:           "Tech Salon Cotonou 2025",
			Description:     "Rencontrez les investisseurs, partenaires et autres startups lors du plus grand événement tech de l'année.",
			Type:            models.OfferTypeEvent,
			Sector:          "Tech",
			CreatorID:       "admin1",
			CreatorName:     "ADPME",
			Deadline:        now + 15*day,
			ExternalFormURL: "https://techsalon.bj/register",
			Views:           120,
			Applications:    34,
			CreatedAt:       now - 3*day,
		},
		models.Offer{
			ID:              "o3",
			Title:           "Financement Agritech",
			Description:     "Subventions pour startups agricoles innovantes. Jusqu'à 30M FCFA de financement.",
			Type:            models.OfferTypeOffer,
			Sector:          "Agri",
			CreatorID:       "admin1",
			CreatorName:     "ADPME",
			Deadline:        now + 45*day,
			HasInternalForm: true,
			Views:           67,
			Applications:    8,
			CreatedAt:       now - 2*day,
		},
	}

	groups := []any{
		models.Group{
			ID:        "g1",
			Name:      "Secteur : Tech",
			Type:      "sector",
			Sector:    "Tech",
			Members:   []string{"startuper1", "partner1", "admin1"},
			CreatedAt: now - 10*day,
		},
		models.Group{
			ID:        "g2",
			Name:      "Secteur : Agri",
			Type:      "sector",
			Sector:    "Agri",
			Members:   []string{"partner1", "admin1"},
			CreatedAt: now - 60*day,
		},
		models.Group{
			ID:        "g3",
			Name:      "Secteur : Finance",
			Type:      "sector",
			Sector:    "Finance",
			Members:   []string{"admin1"},
			CreatedAt: now - 5*day,
		},
	}

	messages := []any{
		models.Message{
			ID:        "m1",
			GroupID:   "g1",
			UserID:    "admin1",
			UserName:  "Admin ADPME",
			Content:   "Bienvenue dans le groupe Tech ! Partagez vos innovations.",
			CreatedAt: now - 2*day,
		},
		models.Message{
			ID:        "m2",
			GroupID:   "g1",
			UserID:    "startuper1",
			UserName:  "Jean Innov",
			Content:   "Merci ! Hâte de collaborer avec vous tous.",
			CreatedAt: now - day,
		},
	}

	candidacies := []any{
		models.Candidacy{
			ID:          "c1",
			OfferID:     "o1",
			OfferTitle:  "Programme d'Accélération Tech 2025",
			StartupID:   "s1",
			StartupName: "MaTech",
			UserID:      "startuper1",
			Status:      models.StatusPending,
			FormData:    map[string]string{"pitch": "Notre solution IA révolutionne l'agriculture..."},
			SubmittedAt: now - 2*day,
		},
	}

	savedOffers := []any{
		models.SavedOffer{
			ID:      "so1",
			UserID:  "startuper1",
			OfferID: "o2",
			SavedAt: now - day,
		},
	}

	reports := []any{
		models.Report{
			ID:         "r1",
			Type:       "content",
			TargetType: "post",
			TargetID:   "p1",
			ReporterID: "startuper1",
			Reason:     "Contenu inapproprié",
			Status:     models.StatusPending,
			CreatedAt:  now - day,
		},
	}

	data := make(map[string][]Record)
	for collection, items := range map[string][]any{
		Users:              users,
		Startups:           startups,
		Offers:             offers,
		Groups:             groups,
		Messages:           messages,
		Candidacies:        candidacies,
		SavedOffers:        savedOffers,
		JoinRequests:       {},
		StartupConnections: {},
		Reports:            reports,
		Posts:              {},
	} {
		records := make([]Record, 0, len(items))
		for _, item := range items {
			rec, err := Encode(item)
			if err != nil {
				return nil, fmt.Errorf("failed to seed %s: %w", collection, err)
			}
			records = append(records, rec)
		}
		data[collection] = records
	}
	return data, nil
}
