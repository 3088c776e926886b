package catalog

import "github.com/Nivash8098/E-Commerece-Website/internal/domain"

// Categories shown by the storefront.
const (
	CategoryElectronics = "Electronics"
	CategoryFashion     = "Fashion"
	CategoryHome        = "Home"
	CategoryAppliances  = "Appliances"
	CategoryBeauty      = "Beauty"
	CategoryMobiles     = "Mobiles"
	CategoryGrocery     = "Grocery"
)

// DemoProducts is served when the backend is unreachable or has no products.
func DemoProducts() []domain.Product {
	return []domain.Product{
		demo("1", "Sony WH-1000XM5 Noise Canceling Headphones", 29999, 34999, "Industry-leading noise cancellation with two processors and eight microphones.", CategoryElectronics, "Sony", 15, "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?auto=format&fit=crop&w=800&q=80", 4.8, 2450),
		demo("m1", "iPhone 15 Pro Max (256 GB) - Natural Titanium", 148900, 159900, "Forged in titanium and featuring the groundbreaking A17 Pro chip, a customizable Action button, and a more versatile Pro camera system.", CategoryMobiles, "Apple", 12, "https://images.unsplash.com/photo-1695048133142-1a20484d256e?auto=format&fit=crop&w=800&q=80", 4.9, 5620),
		demo("m2", "Samsung Galaxy S24 Ultra 5G (Titanium Gray)", 129999, 139999, "The ultimate Galaxy Ultra experience. Now with Galaxy AI, 200MP camera, and built-in S Pen.", CategoryMobiles, "Samsung", 25, "https://images.unsplash.com/photo-1610945265064-0e34e5519bbf?auto=format&fit=crop&w=800&q=80", 4.8, 3120),
		demo("2", "Apple MacBook Air M2 - 256GB", 94990, 114900, "Strikingly thin design, 13.6-inch Liquid Retina display, and incredible speed.", CategoryElectronics, "Apple", 8, "https://images.unsplash.com/photo-1517336714731-489689fd1ca8?auto=format&fit=crop&w=800&q=80", 4.9, 1205),
		demo("m3", "Google Pixel 8 Pro - Obsidian", 106990, 110000, "The all-pro phone engineered by Google. It's sleek, sophisticated, and has the most advanced Pixel Camera yet.", CategoryMobiles, "Google", 10, "https://images.unsplash.com/photo-1598327105666-5b89351aff97?auto=format&fit=crop&w=800&q=80", 4.7, 840),
		demo("m4", "OnePlus 12 (Flowy Emerald, 16GB RAM)", 64999, 69999, "Elite performance with Snapdragon 8 Gen 3, 4th Gen Hasselblad Camera for Mobile, and 100W SUPERVOOC charging.", CategoryMobiles, "OnePlus", 18, "https://images.unsplash.com/photo-1511707171634-5f897ff02aa9?auto=format&fit=crop&w=800&q=80", 4.6, 1105),
		demo("3", "Premium Leather Minimalist Wallet", 1299, 1999, "Crafted from genuine top-grain leather with RFID protection.", CategoryFashion, "Generic", 50, "https://images.unsplash.com/photo-1627123424574-724758594e93?auto=format&fit=crop&w=800&q=80", 4.5, 890),
		demo("4", "Smart LED Coffee Table", 15400, 18999, "Futuristic design with built-in cooler and voice-controlled lighting.", CategoryHome, "Futuristica", 5, "https://images.unsplash.com/photo-1567538096630-e0c55bd6374c?auto=format&fit=crop&w=800&q=80", 4.2, 45),
		demo("m5", "Nothing Phone (2) - Dark Gray", 39999, 44999, "The iconic Glyph Interface meets premium performance. 50MP dual rear cameras and Nothing OS 2.0.", CategoryMobiles, "Nothing", 30, "https://images.unsplash.com/photo-1678911820864-e2c567c655d7?auto=format&fit=crop&w=800&q=80", 4.5, 1250),
	}
}

func demo(id, name string, price, oldPrice int64, description, category, brand string, stock int, image string, rating float64, reviews int) domain.Product {
	return domain.Product{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       price,
		OldPrice:    &oldPrice,
		Category:    category,
		Brand:       brand,
		Stock:       stock,
		Images:      []string{image},
		Rating:      &rating,
		Reviews:     &reviews,
	}
}
