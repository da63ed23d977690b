package cmd

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/klarkurs/mpu-platform/app/entity"
	"github.com/klarkurs/mpu-platform/app/repository"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert starter catalog data",
	Long:  "Insert the product catalog, an interview question bank, and a demo consultant with open slots. Existing rows are left untouched.",
	Run:   runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(_ *cobra.Command, _ []string) {
	cfg, svcs, cleanup := mustCreateServices()
	defer cleanup()

	ctx := context.Background()
	store := svcs.store

	if err := seedProducts(ctx, store); err != nil {
		logrus.WithError(err).Fatal("Seeding products failed")
	}
	if err := seedQuestionBank(ctx, store); err != nil {
		logrus.WithError(err).Fatal("Seeding question bank failed")
	}
	if err := seedConsultant(ctx, store, cfg.Auth.BcryptCost); err != nil {
		logrus.WithError(err).Fatal("Seeding consultant failed")
	}
	logrus.Info("Seed complete")
}

func seedProducts(ctx context.Context, store *repository.Store) error {
	products := []*entity.Product{
		{
			Code:       "AI_PACK_50",
			Type:       entity.ProductTypeAIPack,
			NameDE:     "KI-Training 50 Fragen",
			NameEN:     "AI training, 50 questions",
			PriceCents: 2900,
			Currency:   "EUR",
			Metadata:   map[string]interface{}{"credits": 50},
		},
		{
			Code:       "CALL_60",
			Type:       entity.ProductTypeBooking,
			NameDE:     "Einzelgespräch 60 Minuten",
			NameEN:     "One-on-one session, 60 minutes",
			PriceCents: 8900,
			Currency:   "EUR",
			Metadata:   map[string]interface{}{"qty": 1},
		},
		{
			Code:       "PLAN_START",
			Type:       entity.ProductTypeProgram,
			NameDE:     "Vorbereitungsprogramm Start",
			NameEN:     "Preparation program Start",
			PriceCents: 19900,
			Currency:   "EUR",
			Metadata:   map[string]interface{}{"credits": 100, "qty": 1},
		},
		{
			Code:       "PLAN_INTENSIV",
			Type:       entity.ProductTypeProgram,
			NameDE:     "Vorbereitungsprogramm Intensiv",
			NameEN:     "Preparation program Intensive",
			PriceCents: 49900,
			Currency:   "EUR",
			Metadata:   map[string]interface{}{"credits": 250, "qty": 3},
		},
	}

	for _, product := range products {
		existing, err := store.FindProductByCode(ctx, product.Code)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		product.ID = uuid.NewString()
		product.Active = true
		product.CreatedAt = time.Now().UTC()
		if err := store.CreateProduct(ctx, product); err != nil {
			return err
		}
		logrus.WithField("code", product.Code).Info("Product seeded")
	}
	return nil
}

type seedQuestion struct {
	level  int32
	de     string
	en     string
	intent string
	tags   []string
}

func seedQuestionBank(ctx context.Context, store *repository.Store) error {
	existing, err := store.FindTopicBySlug(ctx, "alkohol")
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	topic := &entity.Topic{
		ID:        uuid.NewString(),
		Slug:      "alkohol",
		TitleDE:   "Alkohol im Straßenverkehr",
		TitleEN:   "Alcohol and road traffic",
		CreatedAt: time.Now().UTC(),
	}
	if err := store.CreateTopic(ctx, topic); err != nil {
		return err
	}

	questions := []seedQuestion{
		{
			level:  1,
			de:     "Erzählen Sie mir zum Einstieg: Warum sind Sie heute hier?",
			en:     "To start with, tell me: why are you here today?",
			intent: "opening",
			tags:   []string{"einstieg"},
		},
		{
			level:  2,
			de:     "Wie viel haben Sie an dem Abend der Auffälligkeit getrunken, und über welchen Zeitraum?",
			en:     "How much did you drink on the evening of the incident, and over what period?",
			intent: "facts",
			tags:   []string{"trinkmenge"},
		},
		{
			level:  3,
			de:     "Was hat sich seit dem Vorfall konkret an Ihrem Trinkverhalten geändert?",
			en:     "What has concretely changed about your drinking since the incident?",
			intent: "change",
			tags:   []string{"veraenderung"},
		},
		{
			level:  4,
			de:     "Sie sagen, Sie trinken nichts mehr. Woran würde Ihr Umfeld merken, dass das stimmt?",
			en:     "You say you no longer drink. How would the people around you notice that this is true?",
			intent: "challenge",
			tags:   []string{"abstinenz", "nachweis"},
		},
		{
			level:  5,
			de:     "Stellen Sie sich vor, Sie bestehen heute und feiern mit Freunden. Jemand reicht Ihnen ein Glas Sekt. Was passiert?",
			en:     "Imagine you pass today and celebrate with friends. Someone hands you a glass of sparkling wine. What happens?",
			intent: "pressure",
			tags:   []string{"rueckfall", "szenario"},
		},
	}

	for _, q := range questions {
		question := &entity.Question{
			ID:         uuid.NewString(),
			TopicID:    topic.ID,
			Level:      q.level,
			QuestionDE: q.de,
			QuestionEN: q.en,
			Intent:     q.intent,
			Tags:       q.tags,
			CreatedAt:  time.Now().UTC(),
		}
		if err := store.CreateQuestion(ctx, question); err != nil {
			return err
		}
	}
	logrus.WithField("topic", topic.Slug).WithField("questions", len(questions)).Info("Question bank seeded")
	return nil
}

func seedConsultant(ctx context.Context, store *repository.Store, bcryptCost int) error {
	const email = "berater@klarkurs.example"

	existing, err := store.FindUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcryptCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	consultant := &entity.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Demo Berater",
		Locale:       "de",
		Role:         entity.RoleConsultant,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.CreateUser(ctx, consultant); err != nil {
		return err
	}

	// Two weeks of weekday morning slots.
	for day := 1; day <= 14; day++ {
		startsAt := now.AddDate(0, 0, day).Truncate(24 * time.Hour).Add(9 * time.Hour)
		if wd := startsAt.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		slot := &entity.Slot{
			ID:              uuid.NewString(),
			ConsultantID:    consultant.ID,
			StartsAt:        startsAt,
			DurationMin:     60,
			Title:           "Vorbereitungsgespräch",
			MeetingProvider: "jitsi",
			Status:          entity.SlotStatusOpen,
			CreatedAt:       now,
		}
		if err := store.CreateSlot(ctx, slot); err != nil {
			return err
		}
	}
	logrus.WithField("email", email).Info("Consultant seeded")
	return nil
}
