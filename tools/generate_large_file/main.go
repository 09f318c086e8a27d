// Large Ledger File Generator
//
// This tool generates a large ledger file for performance testing and profiling.
// It creates realistic entries with various features to stress-test the parser and ledger.
//
// Usage:
//
//	go run main.go > large.ledger
//	go run main.go 20000000 > large.ledger  # Specify target size in bytes
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTargetSize = 10 * 1024 * 1024 // 10MB
)

var (
	assets = []string{
		"Assets:Bank:Checking",
		"Assets:Bank:Savings",
		"Assets:Cash",
		"Liabilities:CreditCard:Visa",
		"Liabilities:CreditCard:Amex",
	}

	expenses = []string{
		"Expenses:Food:Groceries",
		"Expenses:Food:Restaurant",
		"Expenses:Housing:Rent",
		"Expenses:Housing:Utilities",
		"Expenses:Transport:Gas",
		"Expenses:Transport:Transit",
		"Expenses:Shopping:Clothing",
		"Expenses:Shopping:Electronics",
		"Expenses:Entertainment:Movies",
		"Expenses:Healthcare:Medical",
		"Expenses:Taxes:Federal",
		"Expenses:Taxes:State",
	}

	income = []string{
		"Income:Salary",
		"Income:Bonus",
		"Income:Investments:Dividends",
		"Income:Investments:Interest",
	}

	payees = []string{
		"Whole Foods", "Safeway", "Trader Joe's", "Costco",
		"Shell Gas", "Chevron", "BART", "Uber",
		"Landlord", "PG&E", "Comcast", "AT&T",
		"Amazon", "Target", "Best Buy", "Apple Store",
		"Netflix", "Spotify", "AMC Theaters",
		"Employer Inc", "Fidelity", "Vanguard",
	}

	notes = []string{
		"business", "vacation", "tax-deductible", "reimbursable",
	}

	// amount formats keyed by commodity, exercising prefixed, suffixed and
	// thousands-grouped styles
	commodities = []struct {
		symbol string
		format func(cents int) string
	}{
		{"$", func(cents int) string { return "$" + grouped(cents) }},
		{"EUR", func(cents int) string { return plain(cents) + " EUR" }},
		{"GBP", func(cents int) string { return plain(cents) + " GBP" }},
	}
)

func main() {
	targetSize := defaultTargetSize
	if len(os.Args) > 1 {
		if size, err := strconv.Atoi(os.Args[1]); err == nil {
			targetSize = size
		}
	}

	writeHeader()

	currentDate := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	bytesWritten := 0
	entryCount := 0

	for bytesWritten < targetSize {
		var output string
		switch rand.Intn(10) {
		case 0, 1, 2, 3: // 40% - Simple expense with inferred amount
			output = generateExpense(currentDate)
		case 4, 5: // 20% - Expense with explicit amounts on both sides
			output = generateExplicitExpense(currentDate)
		case 6: // 10% - Income
			output = generateIncome(currentDate)
		case 7: // 10% - Split across several expenses
			output = generateSplit(currentDate)
		case 8: // 10% - Cleared entry with code and notes
			output = generateClearedEntry(currentDate)
		case 9: // 10% - Transfer with an effective date
			output = generateTransfer(currentDate)
		}
		fmt.Print(output)
		bytesWritten += len(output)
		entryCount++

		// Advance date by 0-2 days
		currentDate = currentDate.AddDate(0, 0, rand.Intn(3))
	}

	fmt.Fprintf(os.Stderr, "\nGenerated %d bytes with %d entries\n", bytesWritten, entryCount)
}

func writeHeader() {
	fmt.Println("; Large ledger file for performance testing")
	fmt.Println("; Generated:", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Println()
	fmt.Println("2020/01/01 Opening balances")
	fmt.Println("    Assets:Bank:Checking  $25,000.00")
	fmt.Println("    Assets:Bank:Savings  10000.00 EUR")
	fmt.Println("    Equity:Opening Balances")
	fmt.Println()
}

func pick(values []string) string {
	return values[rand.Intn(len(values))]
}

func randCents(minDollars, maxDollars int) int {
	return (minDollars*100 + rand.Intn((maxDollars-minDollars)*100)) | 1
}

func plain(cents int) string {
	sign := ""
	if cents < 0 {
		sign, cents = "-", -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func grouped(cents int) string {
	s := plain(cents)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	for i := len(intPart) - 3; i > 0; i -= 3 {
		intPart = intPart[:i] + "," + intPart[i:]
	}
	return sign + intPart + "." + frac
}

func amount(cents int) string {
	c := commodities[rand.Intn(len(commodities))]
	return c.format(cents)
}

func generateExpense(date time.Time) string {
	return fmt.Sprintf("%s %s\n    %s  %s\n    %s\n\n",
		date.Format("2006/01/02"), pick(payees),
		pick(expenses), amount(randCents(5, 300)),
		pick(assets))
}

func generateExplicitExpense(date time.Time) string {
	c := commodities[rand.Intn(len(commodities))]
	cents := randCents(10, 500)
	return fmt.Sprintf("%s %s\n    %s  %s\n    %s  %s\n\n",
		date.Format("2006/01/02"), pick(payees),
		pick(expenses), c.format(cents),
		pick(assets), c.format(-cents))
}

func generateIncome(date time.Time) string {
	return fmt.Sprintf("%s %s\n    Assets:Bank:Checking  $%s\n    %s\n\n",
		date.Format("2006/01/02"), pick(payees),
		grouped(randCents(1000, 8000)),
		pick(income))
}

func generateSplit(date time.Time) string {
	c := commodities[rand.Intn(len(commodities))]

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", date.Format("2006/01/02"), pick(payees))
	for range rand.Intn(3) + 2 {
		fmt.Fprintf(&b, "    %s  %s\n", pick(expenses), c.format(randCents(5, 120)))
	}
	fmt.Fprintf(&b, "    %s\n\n", pick(assets))
	return b.String()
}

func generateClearedEntry(date time.Time) string {
	return fmt.Sprintf("%s * (%d) %s\n    %s  %s  ; %s\n    %s\n\n",
		date.Format("2006/01/02"), 1000+rand.Intn(9000), pick(payees),
		pick(expenses), amount(randCents(20, 900)), pick(notes),
		pick(assets))
}

func generateTransfer(date time.Time) string {
	cents := randCents(100, 2000)
	return fmt.Sprintf("%s=%s ! Transfer to savings\n    Assets:Bank:Savings  %s EUR\n    Assets:Bank:Checking  %s EUR\n\n",
		date.Format("2006/01/02"), date.AddDate(0, 0, 2).Format("2006/01/02"),
		plain(cents), plain(-cents))
}
