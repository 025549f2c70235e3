package e2e

import (
	"fmt"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// E2ETestSuite provides a test suite for end-to-end tests
type E2ETestSuite struct {
	suite.Suite
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
	expect  playwright.PlaywrightAssertions
}

// SetupSuite runs once before all tests
func (suite *E2ETestSuite) SetupSuite() {
	pw, err := playwright.Run()
	require.NoError(suite.T(), err, "could not launch playwright")
	suite.pw = pw

	browser, err := pw.Chromium.Launch()
	require.NoError(suite.T(), err, "could not launch chromium")
	suite.browser = browser

	suite.expect = playwright.NewPlaywrightAssertions()
}

// TearDownSuite runs once after all tests
func (suite *E2ETestSuite) TearDownSuite() {
	if suite.browser != nil {
		suite.browser.Close()
	}
	if suite.pw != nil {
		suite.pw.Stop()
	}
}

// SetupTest runs before each test
func (suite *E2ETestSuite) SetupTest() {
	page, err := suite.browser.NewPage()
	require.NoError(suite.T(), err, "could not create page")
	suite.page = page

	_, err = suite.page.Goto(appURL)
	require.NoError(suite.T(), err, "could not navigate to app")
}

// TearDownTest runs after each test
func (suite *E2ETestSuite) TearDownTest() {
	if suite.page != nil {
		suite.page.Close()
	}
}

// uniqueUsername avoids collisions between tests sharing one database.
func uniqueUsername(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, time.Now().UnixNano())
}

func (suite *E2ETestSuite) signupAndLogin(username, password string) {
	_, err := suite.page.Goto(appURL + "/signup")
	require.NoError(suite.T(), err)

	err = suite.expect.Locator(suite.page.Locator(".signup-form")).ToBeVisible()
	require.NoError(suite.T(), err, "signup form not visible")

	require.NoError(suite.T(), suite.page.Locator("input[name=username]").Fill(username))
	require.NoError(suite.T(), suite.page.Locator("input[name=password]").Fill(password))
	require.NoError(suite.T(), suite.page.Locator(".signup-btn").Click())

	// Signup redirects to the login page.
	err = suite.expect.Locator(suite.page.Locator(".login-form")).ToBeVisible()
	require.NoError(suite.T(), err, "did not land on login page after signup")

	require.NoError(suite.T(), suite.page.Locator("input[name=username]").Fill(username))
	require.NoError(suite.T(), suite.page.Locator("input[name=password]").Fill(password))
	require.NoError(suite.T(), suite.page.Locator(".login-btn").Click())

	err = suite.expect.Locator(suite.page.Locator(".list-screen")).ToBeVisible()
	require.NoError(suite.T(), err, "did not redirect to expenses page after login")
}

func (suite *E2ETestSuite) addExpense(category, amount, comments string) {
	_, err := suite.page.Goto(appURL + "/add")
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), suite.page.Locator("input[name=category]").Fill(category))
	require.NoError(suite.T(), suite.page.Locator("input[name=amount]").Fill(amount))
	require.NoError(suite.T(), suite.page.Locator("input[name=comments]").Fill(comments))
	require.NoError(suite.T(), suite.page.Locator(".save-btn").Click())

	err = suite.expect.Locator(suite.page.Locator(".list-screen")).ToBeVisible()
	require.NoError(suite.T(), err, "did not return to expense list after adding")
}

func (suite *E2ETestSuite) TestSignupLoginAndExpenseCRUD() {
	suite.signupAndLogin(uniqueUsername("alice"), "testpass123")

	suite.addExpense("Food", "12.50", "lunch")

	err := suite.expect.Locator(suite.page.Locator(".flash")).ToContainText("Expense added")
	require.NoError(suite.T(), err)
	err = suite.expect.Locator(suite.page.Locator(".expense-category").First()).ToHaveText("Food")
	require.NoError(suite.T(), err)

	// Edit the expense
	require.NoError(suite.T(), suite.page.Locator(".edit-link").First().Click())
	require.NoError(suite.T(), suite.page.Locator("input[name=category]").Fill("Groceries"))
	require.NoError(suite.T(), suite.page.Locator("input[name=amount]").Fill("15.75"))
	require.NoError(suite.T(), suite.page.Locator(".save-btn").Click())

	err = suite.expect.Locator(suite.page.Locator(".flash")).ToContainText("Updated")
	require.NoError(suite.T(), err)
	err = suite.expect.Locator(suite.page.Locator(".expense-category").First()).ToHaveText("Groceries")
	require.NoError(suite.T(), err)

	// Delete the expense
	require.NoError(suite.T(), suite.page.Locator(".delete-link").First().Click())
	err = suite.expect.Locator(suite.page.Locator(".flash")).ToContainText("Deleted")
	require.NoError(suite.T(), err)
}

func (suite *E2ETestSuite) TestInvalidAmountShowsMessage() {
	suite.signupAndLogin(uniqueUsername("bob"), "testpass123")

	_, err := suite.page.Goto(appURL + "/add")
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), suite.page.Locator("input[name=category]").Fill("Food"))
	require.NoError(suite.T(), suite.page.Locator("input[name=amount]").Fill("twelve"))
	require.NoError(suite.T(), suite.page.Locator(".save-btn").Click())

	err = suite.expect.Locator(suite.page.Locator(".flash")).ToContainText("Invalid amount format")
	require.NoError(suite.T(), err)
}

func (suite *E2ETestSuite) TestInvalidLoginShowsMessage() {
	_, err := suite.page.Goto(appURL + "/login")
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), suite.page.Locator("input[name=username]").Fill("nobody"))
	require.NoError(suite.T(), suite.page.Locator("input[name=password]").Fill("wrongpass"))
	require.NoError(suite.T(), suite.page.Locator(".login-btn").Click())

	err = suite.expect.Locator(suite.page.Locator(".flash")).ToContainText("Invalid credentials")
	require.NoError(suite.T(), err)
}

func (suite *E2ETestSuite) TestChartPage() {
	suite.signupAndLogin(uniqueUsername("carol"), "testpass123")

	suite.addExpense("Food", "12.50", "")
	suite.addExpense("Food", "7.50", "")

	_, err := suite.page.Goto(appURL + "/chart")
	require.NoError(suite.T(), err)

	err = suite.expect.Locator(suite.page.Locator("#chart")).ToBeVisible()
	require.NoError(suite.T(), err, "chart canvas not visible")
}

func TestE2ESuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e tests in short mode")
	}
	suite.Run(t, new(E2ETestSuite))
}
