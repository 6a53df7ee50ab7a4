package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultAPIBase = "http://localhost:8080"
)

var (
	apiBase string
	token   string
	client  = &http.Client{Timeout: 30 * time.Second}
	mealID  string
	waterMl int
)

func main() {
	fmt.Println("=== Vitalis E2E Smoke Test ===")
	fmt.Println()

	apiBase = getEnv("API_BASE_URL", defaultAPIBase)
	token = getEnv("SMOKE_TOKEN", "")

	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Printf("Token: %s\n", maskString(token))
	fmt.Println()

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Pair Device", testPair},
		{"Dashboard", testDashboard},
		{"Add Water", testAddWater},
		{"Log Meal", testLogMeal},
		{"Delete Meal", testDeleteMeal},
		{"Log Exercise", testLogExercise},
		{"List Reminders", testListReminders},
		{"Report (CSV)", testReportCSV},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("❌ FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("✅ OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("❌ SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println("✅ ALL SMOKE TESTS PASSED")
}

type dashboard struct {
	Stats struct {
		Water            int `json:"water"`
		CaloriesConsumed int `json:"caloriesConsumed"`
		CaloriesBurned   int `json:"caloriesBurned"`
		Meals            []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"meals"`
	} `json:"stats"`
}

func testHealthz() error {
	_, err := call(http.MethodGet, "/healthz", nil, http.StatusOK, nil)
	return err
}

// testPair получает токен по PAIRING_CODE, если SMOKE_TOKEN не задан.
func testPair() error {
	code := getEnv("SMOKE_PAIRING_CODE", "")
	if token != "" || code == "" {
		return nil
	}
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if _, err := call(http.MethodPost, "/v1/auth/pair", map[string]string{"code": code, "device_name": "smoke"}, http.StatusOK, &resp); err != nil {
		return err
	}
	if resp.AccessToken == "" {
		return fmt.Errorf("empty access_token")
	}
	token = resp.AccessToken
	return nil
}

func testDashboard() error {
	var d dashboard
	if _, err := call(http.MethodGet, "/v1/dashboard", nil, http.StatusOK, &d); err != nil {
		return err
	}
	waterMl = d.Stats.Water
	return nil
}

func testAddWater() error {
	var d dashboard
	if _, err := call(http.MethodPost, "/v1/water", map[string]int{"amount_ml": 250}, http.StatusOK, &d); err != nil {
		return err
	}
	want := min(waterMl+250, 5000)
	if d.Stats.Water != want {
		return fmt.Errorf("water=%d, want %d", d.Stats.Water, want)
	}
	return nil
}

func testLogMeal() error {
	var d dashboard
	body := map[string]any{"name": "Smoke Toast", "calories": 120, "type": "Snack"}
	if _, err := call(http.MethodPost, "/v1/meals", body, http.StatusCreated, &d); err != nil {
		return err
	}
	if len(d.Stats.Meals) == 0 || d.Stats.Meals[0].Name != "Smoke Toast" {
		return fmt.Errorf("logged meal not on top of the list")
	}
	mealID = d.Stats.Meals[0].ID
	return nil
}

func testDeleteMeal() error {
	if mealID == "" {
		return fmt.Errorf("no meal to delete")
	}
	var d dashboard
	if _, err := call(http.MethodDelete, "/v1/meals/"+mealID, nil, http.StatusOK, &d); err != nil {
		return err
	}
	for _, m := range d.Stats.Meals {
		if m.ID == mealID {
			return fmt.Errorf("meal %s still present", mealID)
		}
	}
	return nil
}

func testLogExercise() error {
	var d dashboard
	body := map[string]any{"kind": "walking", "duration": 10}
	if _, err := call(http.MethodPost, "/v1/exercises", body, http.StatusCreated, &d); err != nil {
		return err
	}
	if d.Stats.CaloriesBurned < 40 {
		return fmt.Errorf("caloriesBurned=%d, want >= 40", d.Stats.CaloriesBurned)
	}
	return nil
}

func testListReminders() error {
	var resp struct {
		Reminders []json.RawMessage `json:"reminders"`
	}
	_, err := call(http.MethodGet, "/v1/reminders", nil, http.StatusOK, &resp)
	return err
}

func testReportCSV() error {
	body, err := call(http.MethodGet, "/v1/reports/today?format=csv", nil, http.StatusOK, nil)
	if err != nil {
		return err
	}
	if !bytes.HasPrefix(body, []byte("section,")) {
		return fmt.Errorf("unexpected csv header: %.40q", body)
	}
	return nil
}

func call(method, path string, payload any, wantStatus int, out any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, apiBase+path, reader)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != wantStatus {
		return nil, fmt.Errorf("%s %s: status=%d body=%s", method, path, resp.StatusCode, string(body))
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return body, nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func maskString(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
