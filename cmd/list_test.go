package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginFeature = `@auth
Feature: Login
  Background:
    Given a registered user

  @smoke
  Scenario: User logs in
    When the user enters valid credentials
    Then the user sees the dashboard

  Scenario Outline: Wrong password
    When the user enters "<password>"
    Then the user sees an error

    Examples:
      | password |
      | nope     |

  Rule: Lockout
    Background:
      Given three failed attempts

    @slow
    Scenario: Locked account
      When the user logs in
      Then the account is locked
`

const cartFeature = `Feature: Cart
  Scenario: Add item
    Given an empty cart
    When I add an item
    Then the cart has 1 item
`

func runList(t *testing.T, st *state, tag string, outlines bool, paths ...string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunList(&buf, st, paths, tag, outlines))
	return buf.String()
}

func TestList_AlignsColumns(t *testing.T) {
	st := newTestState(t, map[string]string{
		"features/login.feature": loginFeature,
		"features/cart.feature":  cartFeature,
	}, nil)

	out := runList(t, st, "", false, "features")
	assert.Equal(t, ""+
		"features/cart.feature:2    Scenario          Add item\n"+
		"features/login.feature:7   Scenario          User logs in    @smoke\n"+
		"features/login.feature:11  Scenario Outline  Wrong password\n"+
		"features/login.feature:24  Scenario          Locked account  @slow\n", out)
}

func TestList_FilterByTag(t *testing.T) {
	st := newTestState(t, map[string]string{
		"features/login.feature": loginFeature,
		"features/cart.feature":  cartFeature,
	}, nil)

	out := runList(t, st, "@smoke", false, "features")
	assert.Contains(t, out, "User logs in")
	assert.NotContains(t, out, "Locked account")

	out = runList(t, st, "auth", false, "features")
	assert.Contains(t, out, "Locked account", "feature tags apply to rule scenarios")
	assert.NotContains(t, out, "Add item")
}

func TestList_Outlines(t *testing.T) {
	st := newTestState(t, map[string]string{"features/login.feature": loginFeature}, nil)

	out := runList(t, st, "", true, "features")
	assert.Equal(t, "features/login.feature:11  Scenario Outline  Wrong password\n", out)
}

func TestList_DefaultsToWorkingDirectory(t *testing.T) {
	st := newTestState(t, map[string]string{
		"cart.feature":      cartFeature,
		"notes.txt":         "Feature: not a feature file\n",
		".hidden/x.feature": cartFeature,
	}, nil)

	out := runList(t, st, "", false)
	assert.Equal(t, "cart.feature:2  Scenario  Add item\n", out)
}

func TestList_SkipsFilesWithoutFeature(t *testing.T) {
	st := newTestState(t, map[string]string{"features/empty.feature": "# nothing here\n"}, nil)

	assert.Empty(t, runList(t, st, "", false, "features"))
}

func TestList_MissingPath(t *testing.T) {
	st := newTestState(t, nil, nil)
	var buf bytes.Buffer
	assert.ErrorContains(t, RunList(&buf, st, []string{"nope"}, "", false), "reading nope")
}
