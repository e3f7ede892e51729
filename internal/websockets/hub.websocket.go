package websockets

type Hub struct {
	clients    map[string]*Client
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
}

func (h *Hub) run(m *Manager) {
	log := m.log.Function("run")

	for {
		select {
		case client := <-h.register:
			h.clients[client.ID] = client
			log.Info("client connected",
				"clientID", client.ID,
				"profileID", client.ProfileID,
				"totalClients", len(h.clients),
			)

		case client := <-h.unregister:
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.send)
				log.Info("client disconnected", "clientID", client.ID, "totalClients", len(h.clients))
			}

		case message := <-h.broadcast:
			h.dispatch(message, m)
		}
	}
}

// dispatch delivers a message to the clients allowed to see it: superadmins
// see everything, everyone else only their own company's events.
func (h *Hub) dispatch(message Message, m *Manager) {
	log := m.log.Function("dispatch")

	for _, client := range h.clients {
		if !client.canReceive(message) {
			continue
		}

		select {
		case client.send <- message:
		default:
			// Slow consumer; drop the connection rather than block the hub.
			log.Warn("client send buffer full, disconnecting", "clientID", client.ID)
			delete(h.clients, client.ID)
			close(client.send)
		}
	}
}

func (c *Client) canReceive(message Message) bool {
	if c.Superadmin {
		return true
	}
	if message.CompanyID == "" {
		return false
	}
	return c.CompanyID != nil && c.CompanyID.String() == message.CompanyID
}
