package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"loan-advisor/internal/advisor"
	"loan-advisor/internal/config"
	"loan-advisor/internal/domain"
	"loan-advisor/internal/service"
)

func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	client := advisor.NewHTTPClient(cfg.AdvisorBaseURL, nil)
	predictSvc := service.NewPredictService(client)
	chatSvc := service.NewChatService(client, predictSvc, logger)

	fmt.Println("===== Loan Advisor =====")
	for {
		fmt.Println("\n[1] Chat with the advisor")
		fmt.Println("[2] Fill the application form")
		fmt.Println("[3] Exit")
		fmt.Print("Select an option: ")

		line, _ := reader.ReadString('\n')
		switch strings.TrimSpace(line) {
		case "1":
			if err := chatFlow(ctx, reader, chatSvc); err != nil {
				fmt.Printf("Chat error: %v\n", err)
			}
		case "2":
			if err := formFlow(ctx, reader, predictSvc); err != nil {
				fmt.Printf("Form error: %v\n", err)
			}
		case "3":
			os.Exit(0)
		default:
			fmt.Println("Invalid option.")
		}
	}
}

func chatFlow(ctx context.Context, reader *bufio.Reader, chatSvc *service.ChatService) error {
	sess := chatSvc.NewSession()
	for _, msg := range sess.Messages() {
		fmt.Printf("Advisor > %s\n", msg.Content)
	}

	fmt.Println("---- Chat mode (type 'exit' to leave) ----")
	for {
		fmt.Print("You > ")
		text, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if strings.EqualFold(text, "exit") {
			fmt.Println("Leaving chat...")
			return nil
		}

		result, err := chatSvc.Send(ctx, sess, text)
		if err != nil {
			fmt.Printf("error sending message: %v\n", err)
			continue
		}

		for _, msg := range result.Messages {
			if msg.IsUser() {
				continue
			}
			fmt.Printf("Advisor > %s\n", msg.Content)
		}
		if result.Outcome != nil {
			printOutcome(*result.Outcome)
		}
	}
}

func formFlow(ctx context.Context, reader *bufio.Reader, predictSvc *service.PredictService) error {
	form := service.NewFormSession(predictSvc)

	fmt.Println("---- Application form ----")
	form.SetLoanAmount(readInt(reader, "Loan amount (₹): "))
	form.SetAnnualIncome(readInt(reader, "Annual income (₹): "))
	form.SetEmploymentStatus(readChoice(reader, "Employment status", []string{
		domain.EmploymentSalaried, domain.EmploymentSelfEmployed, domain.EmploymentFreelancer, domain.EmploymentStudent,
	}))
	form.SetCreditScore(readInt(reader, "Credit score (300-850): "))
	form.SetLoanPurpose(readChoice(reader, "Loan purpose", []string{
		domain.PurposeHome, domain.PurposeEducation, domain.PurposeBusiness, domain.PurposeVehicle,
		domain.PurposeStartup, domain.PurposeEco, domain.PurposeEmergency, domain.PurposeGoldBacked,
	}))
	form.SetGender(readChoice(reader, "Gender", []string{domain.GenderMale, domain.GenderFemale}))

	outcome, err := form.Submit(ctx)
	if errors.Is(err, service.ErrFormInvalid) {
		fmt.Println("The application has errors:")
		for field, msg := range form.Errors() {
			fmt.Printf("  - %s: %s\n", field, msg)
		}
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Println("Loan Recommendations Ready!")
	printOutcome(*outcome)
	return nil
}

func printOutcome(outcome domain.PredictionOutcome) {
	if outcome.LLMResponse != "" {
		fmt.Printf("\n%s\n", outcome.LLMResponse)
	}
	fmt.Println("\nTop lenders:")
	for i, lender := range outcome.TopLenders {
		fmt.Printf("  %d. %s — %.2f%% interest (match %.0f%%)\n",
			i+1, lender.Name, lender.InterestRate, lender.MatchScore*100)
	}
}

func readInt(reader *bufio.Reader, prompt string) int {
	fmt.Print(prompt)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	v, err := strconv.Atoi(line)
	if err != nil {
		return 0
	}
	return v
}

func readChoice(reader *bufio.Reader, label string, options []string) string {
	fmt.Printf("%s (%s): ", label, strings.Join(options, ", "))
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
