package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dkuzmin/fooddesk/internal/order"
	"github.com/dkuzmin/fooddesk/internal/service"
	"github.com/dkuzmin/fooddesk/internal/storage"
	"github.com/dkuzmin/fooddesk/pkg/types"
)

// Console is the interactive front end. It reads validated primitive input
// from the user and drives the service layer; it never constructs SQL or
// query fragments itself.
type Console struct {
	svc      *service.Service
	clientID int64
	in       *bufio.Scanner
	out      io.Writer
}

// New creates a console session acting as the given client.
func New(svc *service.Service, clientID int64, in io.Reader, out io.Writer) *Console {
	return &Console{
		svc:      svc,
		clientID: clientID,
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// Run drives the main menu until the user quits, input ends, or the context
// is cancelled.
func (c *Console) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		c.printf("\n=== FOODDESK | client #%d ===\n", c.clientID)
		c.printf("1. Place a new order\n")
		c.printf("2. Track my orders\n")
		c.printf("3. My profile\n")
		c.printf("4. Edit delivery address\n")
		c.printf("0. Quit\n")

		choice, err := c.readLine("Your choice: ")
		if err != nil {
			return ignoreEOF(err)
		}

		switch choice {
		case "1":
			err = c.placeOrder(ctx)
		case "2":
			err = c.trackOrders(ctx)
		case "3":
			err = c.profile(ctx)
		case "4":
			err = c.editAddress(ctx)
		case "0":
			c.printf("Bye!\n")
			return nil
		default:
			c.printf("Invalid choice.\n")
		}
		if err != nil {
			return ignoreEOF(err)
		}
	}
}

func (c *Console) placeOrder(ctx context.Context) error {
	client, err := c.svc.Profile(ctx, c.clientID)
	if errors.Is(err, storage.ErrNotFound) {
		c.printf("Client profile not found.\n")
		return nil
	}
	if err != nil {
		return err
	}

	address := client.FullAddress()
	if strings.TrimSpace(client.Street) == "" || strings.TrimSpace(client.Building) == "" {
		c.printf("Your profile address (%s) is incomplete. Use menu item 4 first.\n", address)
		return nil
	}
	c.printf("\nDelivering to the profile address: %s\n", address)

	restaurants, err := c.svc.Restaurants(ctx)
	if err != nil {
		return err
	}
	if len(restaurants) == 0 {
		c.printf("No restaurants available.\n")
		return nil
	}
	c.printf("\n--- Restaurants ---\n")
	for _, r := range restaurants {
		c.printf("%d. %s (%s, %s)\n", r.ID, r.Name, r.Street, r.Building)
	}

	restaurantID, err := c.readInt("Restaurant id: ")
	if err != nil {
		return err
	}
	var selected *types.Restaurant
	for i := range restaurants {
		if restaurants[i].ID == restaurantID {
			selected = &restaurants[i]
			break
		}
	}
	if selected == nil {
		c.printf("Unknown restaurant id.\n")
		return nil
	}

	menu, err := c.svc.Menu(ctx, restaurantID)
	if err != nil {
		return err
	}
	c.printf("\n--- Menu: %s ---\n", selected.Name)

	var items []types.OrderItem
	for {
		for _, d := range menu {
			c.printf("%s\n", d)
		}
		dishID, err := c.readInt("Dish id to add (0 to finish): ")
		if err != nil {
			return err
		}
		if dishID == 0 {
			break
		}

		var dish *types.Dish
		for i := range menu {
			if menu[i].ID == dishID {
				dish = &menu[i]
				break
			}
		}
		if dish == nil {
			c.printf("Unknown dish id.\n")
			continue
		}

		quantity, err := c.readInt(fmt.Sprintf("Quantity for %q: ", dish.Name))
		if err != nil {
			return err
		}
		if quantity <= 0 {
			c.printf("Quantity must be positive.\n")
			continue
		}

		items = append(items, types.OrderItem{
			DishID:    dish.ID,
			Quantity:  int(quantity),
			UnitPrice: dish.Price,
		})
		c.printf("Added: %d x %s. Lines in order: %d\n", quantity, dish.Name, len(items))
	}

	if len(items) == 0 {
		c.printf("Order is empty, nothing to place.\n")
		return nil
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	c.printf("\n--- Confirmation ---\nAddress: %s\nTotal: %s\n", address, total.StringFixed(2))

	ok, err := c.confirm("Place the order? (y/n): ")
	if err != nil {
		return err
	}
	if !ok {
		c.printf("Order cancelled.\n")
		return nil
	}

	orderID, err := c.svc.PlaceOrder(ctx, c.clientID, restaurantID, address, items)
	if err != nil {
		c.printf("Failed to place the order: %v\n", err)
		return nil
	}
	c.printf("Order #%d placed. Current status: New.\n", orderID)
	return nil
}

func (c *Console) trackOrders(ctx context.Context) error {
	var searchTerm string
	query := storage.OrderQuery{Sort: storage.SortByDate, Ascending: false}

	for {
		if ctx.Err() != nil {
			return nil
		}

		query.SearchTerm = searchTerm
		orders, err := c.svc.TrackOrders(ctx, c.clientID, query)
		if err != nil {
			return err
		}

		c.printf("\n--- My orders ---\n")
		if len(orders) == 0 {
			if searchTerm == "" {
				c.printf("No orders yet.\n")
			} else {
				c.printf("No orders match %q.\n", searchTerm)
			}
		} else {
			for _, o := range orders {
				c.printf("%s\n", o)
			}
		}
		c.printf("\nSort: %s\n", describeSort(query))

		c.printf("S. Search (order id, status, or restaurant)\n")
		c.printf("O. Change sort\n")
		c.printf("E. Edit order address\n")
		c.printf("D. Delete order\n")
		c.printf("R. Reset search\n")
		c.printf("0. Back\n")

		choice, err := c.readLine("Your choice: ")
		if err != nil {
			return err
		}

		switch strings.ToUpper(choice) {
		case "S":
			searchTerm, err = c.readLine("Order id, restaurant, or status: ")
			if err != nil {
				return err
			}
		case "O":
			if err := c.changeSort(&query); err != nil {
				return err
			}
		case "E":
			if err := c.editOrder(ctx, orders); err != nil {
				return err
			}
			searchTerm = ""
		case "D":
			if err := c.deleteOrder(ctx, orders); err != nil {
				return err
			}
			searchTerm = ""
		case "R":
			searchTerm = ""
		case "0":
			return nil
		default:
			c.printf("Invalid choice.\n")
		}
	}
}

func (c *Console) changeSort(query *storage.OrderQuery) error {
	c.printf("1. Order id\n2. Total\n3. Date\n")
	field, err := c.readInt("Sort by (1-3): ")
	if err != nil {
		return err
	}
	switch field {
	case 1:
		query.Sort = storage.SortByOrderID
	case 2:
		query.Sort = storage.SortByTotal
	case 3:
		query.Sort = storage.SortByDate
	default:
		c.printf("Invalid field, sort unchanged.\n")
		return nil
	}

	direction, err := c.readInt("Direction: 1. ascending 2. descending: ")
	if err != nil {
		return err
	}
	switch direction {
	case 1:
		query.Ascending = true
	case 2:
		query.Ascending = false
	default:
		c.printf("Invalid direction, sort unchanged.\n")
	}
	return nil
}

func (c *Console) editOrder(ctx context.Context, orders []types.OrderSummary) error {
	orderID, err := c.readInt("Order id to edit: ")
	if err != nil {
		return err
	}
	current := findOrder(orders, orderID)
	if current == nil {
		c.printf("Order #%d is not in the list.\n", orderID)
		return nil
	}

	c.printf("Current address: %s\n", current.DeliveryAddress)
	newAddress, err := c.readLine("New delivery address (empty to keep): ")
	if err != nil {
		return err
	}
	if strings.TrimSpace(newAddress) == "" {
		newAddress = current.DeliveryAddress
	}

	err = c.svc.EditOrder(ctx, c.clientID, orderID, order.StatusID(current.StatusID), newAddress)
	switch {
	case errors.Is(err, types.ErrStateTransition):
		c.printf("Order #%d cannot be edited in status %q.\n", orderID, current.StatusName)
	case err != nil:
		c.printf("Failed to update order #%d: %v\n", orderID, err)
	default:
		c.printf("Order #%d updated.\n", orderID)
	}
	return nil
}

func (c *Console) deleteOrder(ctx context.Context, orders []types.OrderSummary) error {
	orderID, err := c.readInt("Order id to delete: ")
	if err != nil {
		return err
	}
	current := findOrder(orders, orderID)
	if current == nil {
		c.printf("Order #%d is not in the list.\n", orderID)
		return nil
	}

	ok, err := c.confirm(fmt.Sprintf("Delete order #%d (%s, %s)? (y/n): ",
		orderID, current.StatusName, current.TotalAmount.StringFixed(2)))
	if err != nil {
		return err
	}
	if !ok {
		c.printf("Deletion cancelled.\n")
		return nil
	}

	err = c.svc.RemoveOrder(ctx, c.clientID, orderID)
	switch {
	case errors.Is(err, types.ErrStateTransition):
		c.printf("Order #%d cannot be deleted in status %q.\n", orderID, current.StatusName)
	case err != nil:
		c.printf("Failed to delete order #%d: %v\n", orderID, err)
	default:
		c.printf("Order #%d and all its items deleted.\n", orderID)
	}
	return nil
}

func (c *Console) profile(ctx context.Context) error {
	client, err := c.svc.Profile(ctx, c.clientID)
	if errors.Is(err, storage.ErrNotFound) {
		c.printf("Client #%d not found.\n", c.clientID)
		return nil
	}
	if err != nil {
		return err
	}
	c.printf("\n--- My profile ---\n")
	c.printf("Nickname: %s\n", client.Nickname)
	c.printf("Email: %s\n", client.Email)
	c.printf("Delivery address: %s\n", client.FullAddress())
	return nil
}

func (c *Console) editAddress(ctx context.Context) error {
	client, err := c.svc.Profile(ctx, c.clientID)
	if errors.Is(err, storage.ErrNotFound) {
		c.printf("Client profile not found.\n")
		return nil
	}
	if err != nil {
		return err
	}

	c.printf("\n--- Edit delivery address ---\n")
	c.printf("Current address: %s\n", client.FullAddress())

	street, err := c.readLine(fmt.Sprintf("Street (current: %s): ", client.Street))
	if err != nil {
		return err
	}
	if strings.TrimSpace(street) == "" {
		street = client.Street
	}

	building, err := c.readLine(fmt.Sprintf("Building (current: %s): ", client.Building))
	if err != nil {
		return err
	}
	if strings.TrimSpace(building) == "" {
		building = client.Building
	}

	currentApt := "none"
	if client.Apartment != nil {
		currentApt = *client.Apartment
	}
	apartment, err := c.readLine(fmt.Sprintf("Apartment (current: %s, may be empty): ", currentApt))
	if err != nil {
		return err
	}
	var apt *string
	if strings.TrimSpace(apartment) != "" {
		apt = &apartment
	}

	if err := c.svc.UpdateAddress(ctx, c.clientID, street, building, apt); err != nil {
		c.printf("Failed to update address: %v\n", err)
		return nil
	}

	updated := types.Client{Street: street, Building: building, Apartment: apt}
	c.printf("Address updated: %s\n", updated.FullAddress())
	return nil
}

// input helpers

func (c *Console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) readLine(prompt string) (string, error) {
	c.printf("%s", prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

// readInt prompts for an integer; non-numeric input yields -1, matching the
// "invalid id" handling of the menus.
func (c *Console) readInt(prompt string) (int64, error) {
	line, err := c.readLine(prompt)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(line, 10, 64)
	if err != nil {
		return -1, nil
	}
	return n, nil
}

func (c *Console) confirm(prompt string) (bool, error) {
	line, err := c.readLine(prompt)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(line, "y"), nil
}

func findOrder(orders []types.OrderSummary, orderID int64) *types.OrderSummary {
	for i := range orders {
		if orders[i].OrderID == orderID {
			return &orders[i]
		}
	}
	return nil
}

func describeSort(query storage.OrderQuery) string {
	var field string
	switch query.Sort {
	case storage.SortByOrderID:
		field = "order id"
	case storage.SortByTotal:
		field = "total"
	default:
		field = "date"
	}
	direction := "descending"
	if query.Ascending {
		direction = "ascending"
	}
	return field + ", " + direction
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
