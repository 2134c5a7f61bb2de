package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

const defaultBaseURL = "http://localhost:3000/api/session/v1"

// Simplified DTOs for the script
type StartSessionResponse struct {
	Data struct {
		SessionID       string `json:"session_id"`
		StepsTotal      int    `json:"steps_total"`
		FirstClientTurn struct {
			Text       string  `json:"text"`
			EmotionTag string  `json:"emotionTag"`
			Intensity  float64 `json:"intensity"`
		} `json:"first_client_turn"`
	} `json:"data"`
}

type SubmitAnswerResponse struct {
	Data struct {
		Done       bool     `json:"done"`
		Pass       *bool    `json:"pass"`
		Terminated bool     `json:"terminated"`
		Reason     string   `json:"reason"`
		TotalScore *int     `json:"total_score"`
		Step       int      `json:"step"`
		ClientTurn *struct {
			Text       string  `json:"text"`
			EmotionTag string  `json:"emotionTag"`
			Intensity  float64 `json:"intensity"`
		} `json:"client_turn"`
		Evaluation *struct {
			Total int      `json:"total"`
			Pass  bool     `json:"pass"`
			Flags []string `json:"flags"`
		} `json:"evaluation"`
	} `json:"data"`
}

var answers = []string{
	"Здравствуйте! Понимаю, ситуация неприятная. Сейчас проверю статус карты, уточните, пожалуйста, какая сумма не прошла?",
	"Вижу, сработала проверка безопасности. Подтвердите личность через приложение, и я запущу проверку, займёт до 15 минут.",
	"Карта уходит в антифрод при нетипичной сумме или повторной попытке. Это защита ваших денег, не штраф.",
	"Проверка занимает до 15 минут после подтверждения в приложении. Я останусь на линии и сразу скажу результат.",
	"Отлично. Откройте приложение, раздел «Безопасность», пункт «Подтвердить операцию» и нажмите подтвердить.",
	"Первый шаг: подтверждение в приложении. Второй: я запускаю проверку. Третий: сообщаю результат, обычно быстрее минуты ожидания на каждый шаг.",
	"Открыть один платёж в обход проверки я не могу, это правило безопасности. Зато после подтверждения все платежи заработают сразу.",
	"В приложении: «Безопасность» → «Подтвердить операцию» → подтвердите отпечатком. Больше ничего вводить не нужно.",
	"Гарантирую, что проверка стартует сразу после подтверждения и я сообщу результат. Вопрос решён с нашей стороны, спасибо за терпение!",
}

func main() {
	baseURL := defaultBaseURL
	if v := os.Getenv("SIMULATION_BASE_URL"); v != "" {
		baseURL = v
	}

	title := color.New(color.FgCyan, color.Bold)
	clientLine := color.New(color.FgYellow)
	traineeLine := color.New(color.FgGreen)
	verdictLine := color.New(color.FgMagenta, color.Bold)

	title.Println("=== Role-Play Trainer Simulation ===")

	sessionID, clientText, err := startSession(baseURL)
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}
	fmt.Printf("Session: %s\n\n", sessionID)
	clientLine.Printf("CLIENT: %s\n", clientText)

	for _, answer := range answers {
		traineeLine.Printf("AGENT:  %s\n", answer)

		start := time.Now()
		res, err := submitAnswer(baseURL, sessionID, answer)
		elapsed := time.Since(start)
		if err != nil {
			log.Fatalf("Submit failed: %v", err)
		}

		if res.Data.Evaluation != nil {
			fmt.Printf("        [score %d, flags %v, %v]\n", res.Data.Evaluation.Total, res.Data.Evaluation.Flags, elapsed)
		}

		if res.Data.Done {
			verdict := "FAIL"
			if res.Data.Pass != nil && *res.Data.Pass {
				verdict = "PASS"
			}
			score := 0
			if res.Data.TotalScore != nil {
				score = *res.Data.TotalScore
			}
			verdictLine.Printf("\nRESULT: %s (score %d)", verdict, score)
			if res.Data.Reason != "" {
				verdictLine.Printf(" reason=%s", res.Data.Reason)
			}
			fmt.Println()
			return
		}

		if res.Data.ClientTurn != nil {
			clientLine.Printf("CLIENT: %s (%s %.2f)\n", res.Data.ClientTurn.Text, res.Data.ClientTurn.EmotionTag, res.Data.ClientTurn.Intensity)
		}
	}
}

func startSession(baseURL string) (string, string, error) {
	payload := map[string]string{
		"trainee_name":        "Simulation Bot",
		"mode":                "training",
		"fixture_scenario_id": "card_blocked_call_v1",
	}
	jsonBytes, _ := json.Marshal(payload)

	resp, err := http.Post(baseURL, "application/json", bytes.NewBuffer(jsonBytes))
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		return "", "", fmt.Errorf("API Error %d: %s", resp.StatusCode, string(body))
	}

	var res StartSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", "", err
	}
	return res.Data.SessionID, res.Data.FirstClientTurn.Text, nil
}

func submitAnswer(baseURL, sessionID, answer string) (*SubmitAnswerResponse, error) {
	payload := map[string]string{"answer": answer}
	jsonBytes, _ := json.Marshal(payload)

	resp, err := http.Post(baseURL+"/"+sessionID+"/answer", "application/json", bytes.NewBuffer(jsonBytes))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API Error %d: %s", resp.StatusCode, string(body))
	}

	var res SubmitAnswerResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, err
	}
	return &res, nil
}
